package model

// ProjectRecord 进度表中的一行项目记录
// id 在加载时按有效行顺序从 1 开始分配，不取表格里的序号列
type ProjectRecord struct {
	ID               int    `json:"id"`
	Client           string `json:"client"`
	ProjectName      string `json:"project_name"`
	ProductName      string `json:"product_name"`
	Classification   string `json:"classification"`
	DeliveryDate     string `json:"delivery_date"`
	Responsible      string `json:"responsible"`
	WorkshopProgress string `json:"workshop_progress"`

	// 四项进度百分比，加载时裁剪到 [0,100]
	Drawing    int `json:"drawing"`
	Software   int `json:"software"`
	Simulation int `json:"simulation"`
	Listing    int `json:"listing"`

	// 预警日期与预警内容均为自由文本，可能无法解析
	AlertDate    string `json:"alert_date"`
	AlertContent string `json:"alert_content"`
}

// Periods 表级汇总信息
type Periods struct {
	PlanPeriod     string `json:"plan_period"`
	Department     string `json:"department"`
	Project        string `json:"project"`
	ProgressPeriod string `json:"progress_period"`
	LastPeriod     string `json:"last_period"`
}

// DefaultPeriods 表头缺失时的兜底值
func DefaultPeriods() Periods {
	return Periods{
		PlanPeriod:     "2025年6月-2025年10月",
		Department:     "研发部",
		Project:        "AMS",
		ProgressPeriod: "2025-06-17 至 2025-06-27",
		LastPeriod:     "2025-06-03 至 2025-06-16",
	}
}
