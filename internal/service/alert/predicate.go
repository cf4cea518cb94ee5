package alert

import (
	"time"

	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/settings"
)

// 时间串损坏时的兜底值
const (
	fallbackAfternoonClock = "13:59"
	fallbackMorningClock   = "00:00"
)

// ShouldTrigger 判断 now 是否落在 alertDate 的预警窗口内
//
// 每条预警恰好覆盖两个自然日：前一天从提前预警时间起，
// 当天从当日预警时间起，各自持续到当天结束。
func ShouldTrigger(alertDate time.Time, cfg model.AlertSettings, now time.Time) bool {
	if alertDate.IsZero() {
		return false
	}

	today := DateOnly(now)
	dayBefore := DateOnly(alertDate).AddDate(0, 0, -1)

	var clock, fallback string
	switch {
	case today.Equal(dayBefore):
		clock, fallback = cfg.AfternoonAlertTime, fallbackAfternoonClock
	case today.Equal(DateOnly(alertDate)):
		clock, fallback = cfg.MorningAlertTime, fallbackMorningClock
	default:
		return false
	}

	hour, minute, err := settings.ParseClock(clock)
	if err != nil {
		hour, minute, _ = settings.ParseClock(fallback)
	}

	threshold := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	return !now.Before(threshold)
}
