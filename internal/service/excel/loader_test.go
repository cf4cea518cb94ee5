package excel

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const testSheet = "进度表（6.3~6.16）"

// buildTestWorkbook 按生产表的版式写一个最小的进度表
func buildTestWorkbook(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(testSheet); err != nil {
		t.Fatalf("NewSheet failed: %v", err)
	}

	rows := map[string][]interface{}{
		// 第2行：计划周期 / 部门 / 项目
		"A2": {"", "2025年6月", "2025年10月", "", "研发一部", "", "AMS平台"},
		// 第3行：本期与上期（上期单元格带时间后缀）
		"A3": {"", "2025-06-17", "2025-06-27", "", "2025-06-03 00:00:00", "2025-06-16 00:00:00"},
		// 第4行：列头
		"A4": {"序号", "客户", "项目名称", "产品名称", "分类", "出货日期", "负责人",
			"车间进度", "图纸", "软件", "仿真", "挂牌", "预警日期", "预警"},
		// 数据行
		"A5": {"1", "客户A", "项目甲", "产品X", "A类", "2025.07.01", "张三",
			"正常", "85%", "90", "150%", "-5", "2025.06.24", "注意交付"},
		// 合并单元格回流的标题行，应跳过
		"A6": {"", "出货日期计划安排表", "", "", "", "", "", "", "", "", "", "", "", ""},
		// 客户为空，应跳过
		"A7": {"9", "  ", "幽灵项目", "", "", "", "", "", "", "", "", "", "", ""},
		// 第二条有效数据，缺进度列
		"A8": {"88", "客户B", "项目乙", "产品Y", "B类", "2025.08.01", "李四",
			"", "乱写的", "", "", "", "待定", ""},
	}
	for cell, values := range rows {
		v := values
		if err := f.SetSheetRow(testSheet, cell, &v); err != nil {
			t.Fatalf("SetSheetRow(%s) failed: %v", cell, err)
		}
	}

	path := filepath.Join(t.TempDir(), "计划安排进度表.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := buildTestWorkbook(t)
	l := NewLoader(path, testSheet, zerolog.Nop())

	projects, periods, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(projects) != 2 {
		t.Fatalf("len(projects)=%d, want 2", len(projects))
	}

	p := projects[0]
	if p.ID != 1 {
		t.Fatalf("ID=%d, want 1", p.ID)
	}
	if p.Client != "客户A" || p.ProjectName != "项目甲" {
		t.Fatalf("第一行字段不对: %+v", p)
	}
	if p.Drawing != 85 {
		t.Fatalf("Drawing=%d, want 85 (从 85%% 提取)", p.Drawing)
	}
	if p.Software != 90 {
		t.Fatalf("Software=%d, want 90", p.Software)
	}
	if p.Simulation != 100 {
		t.Fatalf("Simulation=%d, want 100 (150%% 裁剪)", p.Simulation)
	}
	if p.Listing != 0 {
		t.Fatalf("Listing=%d, want 0 (-5 裁剪)", p.Listing)
	}
	if p.AlertDate != "2025.06.24" || p.AlertContent != "注意交付" {
		t.Fatalf("预警字段不对: %+v", p)
	}

	// 第二条有效行紧接着编号，跳过的行不占 id
	q := projects[1]
	if q.ID != 2 {
		t.Fatalf("ID=%d, want 2", q.ID)
	}
	if q.Client != "客户B" {
		t.Fatalf("Client=%q", q.Client)
	}
	if q.Drawing != 0 {
		t.Fatalf("Drawing=%d, want 0 (无法解析)", q.Drawing)
	}

	if periods.PlanPeriod != "2025年6月 - 2025年10月" {
		t.Fatalf("PlanPeriod=%q", periods.PlanPeriod)
	}
	if periods.Department != "研发一部" {
		t.Fatalf("Department=%q", periods.Department)
	}
	if periods.Project != "AMS平台" {
		t.Fatalf("Project=%q", periods.Project)
	}
	if periods.ProgressPeriod != "2025-06-17 - 2025-06-27" {
		t.Fatalf("ProgressPeriod=%q", periods.ProgressPeriod)
	}
	if periods.LastPeriod != "2025-06-03 - 2025-06-16" {
		t.Fatalf("LastPeriod=%q, 应只取日期段", periods.LastPeriod)
	}
}

func TestLoad_MissingSheet(t *testing.T) {
	path := buildTestWorkbook(t)
	l := NewLoader(path, "不存在的表", zerolog.Nop())

	if _, _, err := l.Load(); err == nil {
		t.Fatalf("工作表不存在应返回错误")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "nope.xlsx"), testSheet, zerolog.Nop())
	if _, _, err := l.Load(); err == nil {
		t.Fatalf("文件不存在应返回错误")
	}
}

func TestParseProgress(t *testing.T) {
	cases := map[string]int{
		"":       0,
		"85":     85,
		"85.7":   85,
		"85%":    85,
		"150%":   100,
		"200":    100,
		"-5":     0,
		"约60":    60,
		"没有数字":   0,
		"1,00":   100,
	}
	for in, want := range cases {
		if got := parseProgress(in); got != want {
			t.Fatalf("parseProgress(%q)=%d, want %d", in, got, want)
		}
	}
}
