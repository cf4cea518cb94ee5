package broadcast

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/service/alert"
	"github.com/dfhdfh403/ship-progress-monitor/internal/service/cache"
	"github.com/dfhdfh403/ship-progress-monitor/internal/speech"
	"github.com/dfhdfh403/ship-progress-monitor/internal/store"
)

// Mode 播报模式
type Mode string

const (
	// ModeAfternoon 前一天预警：播报预警日期为明天的项目
	ModeAfternoon Mode = "afternoon"
	// ModeMorning 当天预警：播报预警日期为今天的项目
	ModeMorning Mode = "morning"
)

// 每条预警消息连续播报的次数
const speakRepeats = 2

// Broadcaster 定时播报器
//
// 每次触发独立按“明天/今天”重新匹配项目，不复用预警窗口
// 的持久化状态，也不过滤“待定”内容，与网页端预警逻辑分离。
type Broadcaster struct {
	cache   *cache.Manager
	speaker speech.Speaker
	history *store.History
	log     zerolog.Logger
	now     func() time.Time
}

// New 创建播报器
func New(c *cache.Manager, sp speech.Speaker, h *store.History, log zerolog.Logger) *Broadcaster {
	return &Broadcaster{
		cache:   c,
		speaker: sp,
		history: h,
		log:     log,
		now:     time.Now,
	}
}

// SetClock 替换时间源，测试用
func (b *Broadcaster) SetClock(now func() time.Time) {
	b.now = now
}

// Trigger 执行一次播报：强制刷新缓存，匹配项目并连续播报两遍
func (b *Broadcaster) Trigger(mode Mode) {
	_ = b.cache.Refresh(true, "scheduler")

	snap, err := b.cache.Snapshot()
	if err != nil {
		b.log.Error().Err(err).Str("mode", string(mode)).Msg("播报前刷新数据失败")
		return
	}

	message := b.composeMessage(mode, snap)
	if message == "" {
		b.log.Info().Str("mode", string(mode)).Msg("当前没有需要播报的预警")
		return
	}

	b.log.Info().Str("mode", string(mode)).Str("message", message).Msg("播报警报")
	matched := strings.Count(message, "。")

	for i := 0; i < speakRepeats; i++ {
		if err := b.speaker.Speak(message); err != nil {
			b.log.Error().Err(err).Msg("语音播报失败")
		}
	}

	if err := b.history.RecordBroadcast(string(mode), message, matched); err != nil {
		b.log.Warn().Err(err).Msg("写入播报历史失败")
	}
}

// composeMessage 拼接所有命中项目的播报文本，无命中时返回空串
func (b *Broadcaster) composeMessage(mode Mode, snap cache.Snapshot) string {
	today := alert.DateOnly(b.now())

	var sb strings.Builder
	for _, p := range snap.Projects {
		name := strings.TrimSpace(p.ProjectName)
		content := strings.TrimSpace(p.AlertContent)
		alertDate, ok := alert.ParseAlertDate(p.AlertDate)
		if !ok || name == "" || content == "" {
			continue
		}

		var hit bool
		switch mode {
		case ModeAfternoon:
			hit = today.Equal(alertDate.AddDate(0, 0, -1))
		case ModeMorning:
			hit = today.Equal(alertDate)
		}
		if !hit {
			continue
		}

		fmt.Fprintf(&sb, "%s，%s，%s。", p.ProjectName, p.AlertDate, p.AlertContent)
	}
	return sb.String()
}
