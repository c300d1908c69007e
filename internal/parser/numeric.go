package parser

import (
	"math"
	"strconv"
	"strings"

	"staypivot/internal/model"
)

// 巴西格式中需要剔除的符号
var numberNoise = strings.NewReplacer(
	"R$", "",
	" ", "",
	"\u00a0", "",
	"\t", "",
	"\n", "",
	"\r", "",
)

// ParseLocaleNumber 将巴西格式的单元格转换为有限浮点数，失败时返回 0
//
//	"1.234,56" → 1234.56
//	"1234,56"  → 1234.56
//	"R$ 10,00" → 10
//	"-" / 空白  → 0
func ParseLocaleNumber(c model.Cell) float64 {
	v, _ := ParseLocaleNumberStrict(c)
	return v
}

// ParseLocaleNumberStrict 同 ParseLocaleNumber，额外返回是否真正解析成功。
// 空白与占位符 "-" 视为成功解析出的 0。
func ParseLocaleNumberStrict(c model.Cell) (float64, bool) {
	switch c.Kind {
	case model.CellEmpty:
		return 0, true
	case model.CellNumber:
		if !isFinite(c.Number) {
			return 0, false
		}
		return c.Number, true
	}

	s := numberNoise.Replace(strings.TrimSpace(c.Text))
	if s == "" || s == "-" {
		return 0, true
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
