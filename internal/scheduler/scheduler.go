package scheduler

import (
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/broadcast"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/settings"
)

// Scheduler 驱动每日两次播报的定时器
type Scheduler struct {
	log     zerolog.Logger
	trigger func(broadcast.Mode)

	mu      sync.Mutex
	c       *cron.Cron
	entries []cron.EntryID
}

// New 创建调度器，trigger 在定时点被调用
func New(trigger func(broadcast.Mode), log zerolog.Logger) *Scheduler {
	return &Scheduler{
		log:     log,
		trigger: trigger,
		c:       cron.New(),
	}
}

// Start 启动调度循环
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Start()
}

// Stop 停止调度并等待执行中的任务结束
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	<-s.c.Stop().Done()
}

// Apply 按最新设置重建两个每日任务
// 先移除旧任务再注册新任务，新的时间点立即生效，无需重启进程
func (s *Scheduler) Apply(cfg model.AlertSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.entries {
		s.c.Remove(id)
	}
	s.entries = s.entries[:0]

	if err := s.addDailyLocked(cfg.AfternoonAlertTime, broadcast.ModeAfternoon); err != nil {
		return err
	}
	if err := s.addDailyLocked(cfg.MorningAlertTime, broadcast.ModeMorning); err != nil {
		return err
	}

	s.log.Info().
		Str("afternoon", cfg.AfternoonAlertTime).
		Str("morning", cfg.MorningAlertTime).
		Msg("已设置预警任务")
	return nil
}

// Entries 当前注册的任务数，测试用
func (s *Scheduler) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Scheduler) addDailyLocked(clock string, mode broadcast.Mode) error {
	hour, minute, err := settings.ParseClock(clock)
	if err != nil {
		return err
	}

	id, err := s.c.AddFunc(fmt.Sprintf("%d %d * * *", minute, hour), func() {
		s.trigger(mode)
	})
	if err != nil {
		return err
	}
	s.entries = append(s.entries, id)
	return nil
}
