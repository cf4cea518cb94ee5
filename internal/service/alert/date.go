package alert

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// 预警日期列里表示“没有日期”的占位值（统一按小写比较）
var placeholderTokens = map[string]struct{}{
	"":     {},
	"待定":   {},
	"none": {},
	"null": {},
	"nan":  {},
}

// 严格格式按顺序尝试，第一个解析成功的生效
var strictLayouts = []string{
	"2006.01.02",
	"2006-01-02",
	"2006/01/02",
	"2006年01月02日",
	"01/02/2006", // 美国格式
	"02/01/2006", // 欧洲格式
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{4})[.\-/](\d{1,2})[.\-/](\d{1,2})`),
	regexp.MustCompile(`^(\d{1,2})[.\-/](\d{1,2})[.\-/](\d{4})`),
	regexp.MustCompile(`^(\d{4})年(\d{1,2})月(\d{1,2})日`),
}

// ParseAlertDate 解析自由格式的预警日期
// 无法识别或属于占位值时返回 ok=false，绝不 panic
func ParseAlertDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if _, skip := placeholderTokens[strings.ToLower(s)]; skip {
		return time.Time{}, false
	}

	for _, layout := range strictLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			// 按解析出的年月日在本地时区重建，避免时区换算挪动日期
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), true
		}
	}

	// 宽松兜底：正则提取年月日
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}

		var year, month, day int
		if len(m[1]) == 4 {
			// 年份在前
			year = atoi(m[1])
			month = atoi(m[2])
			day = atoi(m[3])
		} else {
			// 日期在前
			day = atoi(m[1])
			month = atoi(m[2])
			year = atoi(m[3])
		}

		if year < 100 {
			if year > 50 {
				year += 1900
			} else {
				year += 2000
			}
		}

		if t, ok := makeDate(year, month, day); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// DateOnly 去掉时分秒，保留本地日历日期
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// makeDate 构造真实日历日期，2月30日之类的非法组合返回 false
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
