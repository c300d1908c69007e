package parser

import (
	"math"
	"sort"
	"time"

	"staypivot/internal/model"
)

// recordKey 用于完全重复判定的记录键
type recordKey struct {
	customer string
	day      time.Time
	metrics  model.Metrics
}

// Normalize 解析日期、去重、按 (日期, 客户) 升序排序，最后把非有限指标置 0
func Normalize(records []model.Record) NormalizeResult {
	result := NormalizeResult{
		Records: make([]model.Record, 0, len(records)),
	}

	seen := make(map[recordKey]struct{}, len(records))
	for _, r := range records {
		day, ok := ParseDayFirst(r.Label)
		if !ok {
			result.BadDates++
			continue
		}
		r.Day = day

		key := recordKey{customer: r.Customer, day: day, metrics: r.Metrics}
		if _, dup := seen[key]; dup {
			result.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		result.Records = append(result.Records, r)
	}

	sort.SliceStable(result.Records, func(i, j int) bool {
		a, b := result.Records[i], result.Records[j]
		if !a.Day.Equal(b.Day) {
			return a.Day.Before(b.Day)
		}
		return a.Customer < b.Customer
	})

	for i := range result.Records {
		result.Records[i].Metrics = finiteMetrics(result.Records[i].Metrics)
	}

	return result
}

// finiteMetrics NaN/Inf 一律置 0
func finiteMetrics(m model.Metrics) model.Metrics {
	values := m.Values()
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			values[i] = 0
		}
	}
	return model.MetricsFromValues(values)
}
