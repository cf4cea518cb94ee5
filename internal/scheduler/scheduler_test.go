package scheduler

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/broadcast"
)

func TestApply(t *testing.T) {
	s := New(func(broadcast.Mode) {}, zerolog.Nop())

	cfg := model.DefaultAlertSettings()
	if err := s.Apply(cfg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := s.Entries(); got != 2 {
		t.Fatalf("Entries()=%d, want 2", got)
	}

	// 重复应用只替换任务，不累积
	cfg.AfternoonAlertTime = "15:30"
	cfg.MorningAlertTime = "08:00"
	if err := s.Apply(cfg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if got := s.Entries(); got != 2 {
		t.Fatalf("重复应用后 Entries()=%d, want 2", got)
	}
}

func TestApply_InvalidClock(t *testing.T) {
	s := New(func(broadcast.Mode) {}, zerolog.Nop())

	cfg := model.AlertSettings{AfternoonAlertTime: "25:00", MorningAlertTime: "00:00"}
	if err := s.Apply(cfg); err == nil {
		t.Fatalf("非法时间应返回错误")
	}
}
