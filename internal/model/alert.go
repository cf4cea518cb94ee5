package model

// AlertEvent 当前处于预警窗口内的项目事件
type AlertEvent struct {
	ID           int    `json:"id"`
	ProjectName  string `json:"project_name"`
	AlertContent string `json:"alert_content"`
	AlertDate    string `json:"alert_date"`
	// ExpiryDate 记录本次评估当天的日期，仅用于导出留痕
	ExpiryDate string `json:"expiry_date"`
}

// ActiveAlertEntry 活跃预警的持久化条目
// created_at 在每次重新触发时刷新
type ActiveAlertEntry struct {
	Data       AlertEvent `json:"data"`
	CreatedAt  int64      `json:"created_at"`
	ExpiryDate string     `json:"expiry_date"`
}

// AlertSettings 两个每日预警时间点
type AlertSettings struct {
	// AfternoonAlertTime 提前一日预警时间（前一天）
	AfternoonAlertTime string `json:"afternoon_alert_time"`
	// MorningAlertTime 当日预警时间（当天）
	MorningAlertTime string `json:"morning_alert_time"`
	LastModified     int64  `json:"last_modified"`
}

// DefaultAlertSettings 默认预警时间
func DefaultAlertSettings() AlertSettings {
	return AlertSettings{
		AfternoonAlertTime: "13:59",
		MorningAlertTime:   "00:00",
		LastModified:       0,
	}
}
