package alert

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
)

// 预警内容为该占位值的项目不触发预警
const pendingContent = "待定"

// Evaluator 扫描项目列表并产出当前处于预警窗口内的事件
type Evaluator struct {
	log zerolog.Logger
}

// NewEvaluator 创建评估器
func NewEvaluator(log zerolog.Logger) *Evaluator {
	return &Evaluator{log: log}
}

// CheckAlerts 返回当前命中预警窗口的事件列表
// 项目名称、预警日期、预警内容任一为空的行不参与评估
func (e *Evaluator) CheckAlerts(projects []model.ProjectRecord, cfg model.AlertSettings, now time.Time) []model.AlertEvent {
	alerts := make([]model.AlertEvent, 0)
	today := DateOnly(now).Format("2006-01-02")

	for _, p := range projects {
		name := strings.TrimSpace(p.ProjectName)
		dateStr := strings.TrimSpace(p.AlertDate)
		content := strings.TrimSpace(p.AlertContent)

		if name == "" || dateStr == "" || content == "" {
			continue
		}

		alertDate, ok := ParseAlertDate(p.AlertDate)
		if !ok {
			e.log.Debug().Int("id", p.ID).Str("alert_date", p.AlertDate).Msg("无法解析预警日期")
			continue
		}
		if !ShouldTrigger(alertDate, cfg, now) {
			continue
		}

		if content == pendingContent {
			e.log.Info().Int("id", p.ID).Str("project", name).Msg("跳过预警（内容无效）")
			continue
		}

		alerts = append(alerts, model.AlertEvent{
			ID:           p.ID,
			ProjectName:  name,
			AlertContent: content,
			AlertDate:    dateStr,
			ExpiryDate:   today,
		})
		e.log.Info().Int("id", p.ID).Str("project", name).Str("alert_date", dateStr).Msg("触发预警")
	}

	return alerts
}
