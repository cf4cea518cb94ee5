package alert

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
)

func TestCheckAlerts(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())
	now := time.Date(2025, 6, 24, 9, 0, 0, 0, time.Local)

	projects := []model.ProjectRecord{
		{ID: 1, ProjectName: "项目甲", AlertDate: "2025.06.24", AlertContent: "注意出货"},
		{ID: 2, ProjectName: "", AlertDate: "2025.06.24", AlertContent: "名称为空"},
		{ID: 3, ProjectName: "项目丙", AlertDate: "", AlertContent: "日期为空"},
		{ID: 4, ProjectName: "项目丁", AlertDate: "2025.06.24", AlertContent: ""},
		{ID: 5, ProjectName: "项目戊", AlertDate: "2025.06.24", AlertContent: "待定"},
		{ID: 6, ProjectName: "项目己", AlertDate: "待定", AlertContent: "日期待定"},
		{ID: 7, ProjectName: "项目庚", AlertDate: "2025.07.01", AlertContent: "还没到时间"},
	}

	alerts := e.CheckAlerts(projects, testSettings(), now)
	if len(alerts) != 1 {
		t.Fatalf("len(alerts)=%d, want 1", len(alerts))
	}

	a := alerts[0]
	if a.ID != 1 {
		t.Fatalf("ID=%d, want 1", a.ID)
	}
	if a.ProjectName != "项目甲" {
		t.Fatalf("ProjectName=%q", a.ProjectName)
	}
	if a.AlertDate != "2025.06.24" {
		t.Fatalf("AlertDate=%q", a.AlertDate)
	}
	if a.ExpiryDate != "2025-06-24" {
		t.Fatalf("ExpiryDate=%q, want 2025-06-24", a.ExpiryDate)
	}
}

func TestCheckAlerts_TrimsFields(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())
	now := time.Date(2025, 6, 23, 14, 0, 0, 0, time.Local)

	projects := []model.ProjectRecord{
		{ID: 1, ProjectName: "  项目甲  ", AlertDate: " 2025.06.24 ", AlertContent: " 注意出货 "},
	}

	alerts := e.CheckAlerts(projects, testSettings(), now)
	if len(alerts) != 1 {
		t.Fatalf("len(alerts)=%d, want 1", len(alerts))
	}
	if alerts[0].ProjectName != "项目甲" {
		t.Fatalf("ProjectName=%q, 应去掉首尾空白", alerts[0].ProjectName)
	}
	if alerts[0].AlertContent != "注意出货" {
		t.Fatalf("AlertContent=%q", alerts[0].AlertContent)
	}
}

func TestCheckAlerts_Empty(t *testing.T) {
	e := NewEvaluator(zerolog.Nop())
	alerts := e.CheckAlerts(nil, testSettings(), time.Now())
	if alerts == nil || len(alerts) != 0 {
		t.Fatalf("空项目列表应返回空切片")
	}
}
