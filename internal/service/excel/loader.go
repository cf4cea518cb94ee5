package excel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/dfhdfh403/ship-progress-monitor/internal/model"
)

// 进度表固定的列布局（A:N）
const (
	colSeq = iota // 表内序号列，加载时重新编号，不使用
	colClient
	colProjectName
	colProductName
	colClassification
	colDeliveryDate
	colResponsible
	colWorkshopProgress
	colDrawing
	colSoftware
	colSimulation
	colListing
	colAlertDate
	colAlertContent
	columnCount
)

// 数据行从第 5 行开始，第 4 行是列头
const headerRowIndex = 3

// 客户列出现这些标题短语时整行跳过
var headerPhrases = []string{"计划出货时间", "出货日期计划安排表"}

var digitRun = regexp.MustCompile(`\d+`)

// Loader 进度表读取器
type Loader struct {
	path  string
	sheet string
	log   zerolog.Logger
}

// NewLoader 创建读取器
func NewLoader(path, sheet string, log zerolog.Logger) *Loader {
	return &Loader{path: path, sheet: sheet, log: log}
}

// Load 读取进度表，返回项目列表与周期信息
// 两条读取路径都失败时返回错误，由调用方保留旧数据
func (l *Loader) Load() ([]model.ProjectRecord, model.Periods, error) {
	rows, err := l.readRows()
	if err != nil {
		l.log.Error().Err(err).Str("path", l.path).Msg("Excel转换错误")
		return nil, model.Periods{}, err
	}

	periods := l.extractPeriods(rows)
	projects := l.extractProjects(rows)
	return projects, periods, nil
}

// readRows 先按格式化值读取，失败后退回原始单元格值再试一次
func (l *Loader) readRows() ([][]string, error) {
	f, err := excelize.OpenFile(l.path)
	if err == nil {
		defer f.Close()
		rows, rerr := f.GetRows(l.sheet)
		if rerr == nil {
			l.log.Debug().Str("sheet", l.sheet).Int("rows", len(rows)).Msg("成功读取Excel文件")
			return rows, nil
		}
		err = rerr
	}
	l.log.Warn().Err(err).Str("path", l.path).Msg("读取Excel文件失败，尝试其他方式")

	raw, oerr := excelize.OpenFile(l.path, excelize.Options{RawCellValue: true})
	if oerr != nil {
		return nil, fmt.Errorf("打开进度表失败: %w", oerr)
	}
	defer raw.Close()

	rows, rerr := raw.GetRows(l.sheet)
	if rerr != nil {
		return nil, fmt.Errorf("读取工作表 %q 失败: %w", l.sheet, rerr)
	}
	l.log.Debug().Str("sheet", l.sheet).Msg("使用原始单元格值成功读取Excel文件")
	return rows, nil
}

// extractPeriods 从表头前两行提取周期信息，缺失时逐项使用兜底值
func (l *Loader) extractPeriods(rows [][]string) model.Periods {
	periods := model.DefaultPeriods()

	if len(rows) > 1 {
		row := rows[1]
		if len(row) > 2 {
			start := cellOr(row, 1, "2025年6月")
			end := cellOr(row, 2, "2025年10月")
			periods.PlanPeriod = start + " - " + end
		}
		if v := cell(row, 4); v != "" {
			periods.Department = v
		}
		if v := cell(row, 6); v != "" {
			periods.Project = v
		}
	}

	if len(rows) > 2 {
		row := rows[2]
		if len(row) > 2 {
			start := cellOr(row, 1, "2025-06-17")
			end := cellOr(row, 2, "2025-06-27")
			periods.ProgressPeriod = start + " - " + end
		}
		if len(row) > 5 {
			// 上期起止可能带时间后缀，只取第一个空白分隔段
			start := firstToken(cellOr(row, 4, "2025-06-03"))
			end := firstToken(cellOr(row, 5, "2025-06-16"))
			periods.LastPeriod = start + " - " + end
		}
	}

	return periods
}

// extractProjects 从数据行构建项目记录，id 按有效行顺序从 1 开始
func (l *Loader) extractProjects(rows [][]string) []model.ProjectRecord {
	projects := make([]model.ProjectRecord, 0)

	if len(rows) <= headerRowIndex+1 {
		return projects
	}

	currentID := 1
	for _, row := range rows[headerRowIndex+1:] {
		client := cell(row, colClient)
		if isHeaderEcho(client) {
			continue
		}
		if strings.TrimSpace(client) == "" {
			continue
		}

		record := model.ProjectRecord{
			ID:               currentID,
			Client:           client,
			ProjectName:      cell(row, colProjectName),
			ProductName:      cell(row, colProductName),
			Classification:   cell(row, colClassification),
			DeliveryDate:     cell(row, colDeliveryDate),
			Responsible:      cell(row, colResponsible),
			WorkshopProgress: cell(row, colWorkshopProgress),
			Drawing:          parseProgress(cell(row, colDrawing)),
			Software:         parseProgress(cell(row, colSoftware)),
			Simulation:       parseProgress(cell(row, colSimulation)),
			Listing:          parseProgress(cell(row, colListing)),
			AlertDate:        cell(row, colAlertDate),
			AlertContent:     cell(row, colAlertContent),
		}

		l.log.Debug().
			Int("id", record.ID).
			Str("alert_date", record.AlertDate).
			Str("alert_content", record.AlertContent).
			Msg("读取项目")

		projects = append(projects, record)
		currentID++
	}

	return projects
}

// isHeaderEcho 判断客户列是否为合并单元格回流的标题文本
func isHeaderEcho(client string) bool {
	for _, phrase := range headerPhrases {
		if strings.Contains(client, phrase) {
			return true
		}
	}
	return false
}

// cell 越界安全地取单元格，合并/多值单元格只取第一行文本
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	v := row[idx]
	if i := strings.IndexByte(v, '\n'); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// cellOr 单元格为空时返回兜底值
func cellOr(row []string, idx int, def string) string {
	if v := cell(row, idx); v != "" {
		return v
	}
	return def
}

// firstToken 取第一个空白分隔段
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}

// parseProgress 把进度单元格归一化为 [0,100] 的整数
//
// 数值串直接取整；带杂字的串提取第一段数字；完全解析不了则按 0 处理。
func parseProgress(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	if f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
		return clampProgress(int(f))
	}

	if m := digitRun.FindString(s); m != "" {
		n, err := strconv.Atoi(m)
		if err == nil {
			return clampProgress(n)
		}
	}

	return 0
}

func clampProgress(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
