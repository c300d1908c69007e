package parser

import (
	"regexp"
	"strings"
	"time"
)

// yearToken 独立的四位数字（年份）
var yearToken = regexp.MustCompile(`(^|\D)\d{4}(\D|$)`)

// dateSeparators 表头中视为日期的分隔符
const dateSeparators = "/"

// 日在前的日期格式，按顺序尝试
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	"2.1.2006",
	"2006-1-2",
	"2006/1/2",
	"2006-01-02T15:04:05",
	"2006-1",
	"1/2006",
	"2-Jan-2006",
	"2-Jan-06",
	"2/Jan/2006",
	"2006",
}

// IsDateHeader 判断表头文本是否像日期：包含四位年份或日期分隔符
func IsDateHeader(text string) bool {
	if strings.ContainsAny(text, dateSeparators) {
		return true
	}
	return yearToken.MatchString(text)
}

// DateLabel 取表头文本中第一个以空白分隔的片段
// 例如 "01/11/2025 Seg" → "01/11/2025"
func DateLabel(text string) (string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// ParseDayFirst 按日在前的约定解析日期标签；日在前不成立的标签（如 01/13/2025）视为无法解析
func ParseDayFirst(label string) (time.Time, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return time.Time{}, false
	}
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, label); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeCustomerName 去除首尾空白
func NormalizeCustomerName(name string) string {
	return strings.TrimSpace(name)
}
