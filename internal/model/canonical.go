package model

import "time"

// DateBlock 日期块：表头行中某一日期对应的 7 列指标起始位置
type DateBlock struct {
	Column int    `json:"column"`
	Label  string `json:"label"`
}

// Customer 客户：第 0 列中的非空名称及其所在行
type Customer struct {
	Name string `json:"name"`
	Row  int    `json:"row"`
}

// Metrics 单个客户在某一日期的七项指标
type Metrics struct {
	OvernightStays float64 `json:"overnightStays"` // 过夜数
	Cancellations  float64 `json:"cancellations"`  // 取消数
	Reservations   float64 `json:"reservations"`   // 预订数
	Vacancies      float64 `json:"vacancies"`      // 空置数
	Guests         float64 `json:"guests"`         // 住客数
	OccupiedUnits  float64 `json:"occupiedUnits"`  // 占用单元数
	TotalDailyRate float64 `json:"totalDailyRate"` // 日租金合计
}

// MetricCount 每个日期块的指标列数
const MetricCount = 7

// Values 按块内列顺序返回指标
func (m Metrics) Values() [MetricCount]float64 {
	return [MetricCount]float64{
		m.OvernightStays,
		m.Cancellations,
		m.Reservations,
		m.Vacancies,
		m.Guests,
		m.OccupiedUnits,
		m.TotalDailyRate,
	}
}

// MetricsFromValues 按块内列顺序组装指标
func MetricsFromValues(v [MetricCount]float64) Metrics {
	return Metrics{
		OvernightStays: v[0],
		Cancellations:  v[1],
		Reservations:   v[2],
		Vacancies:      v[3],
		Guests:         v[4],
		OccupiedUnits:  v[5],
		TotalDailyRate: v[6],
	}
}

// Record 长表中的一行：客户 × 日期
type Record struct {
	Customer string    `json:"customer"`
	Label    string    `json:"label"` // 表头中的原始日期文本
	Day      time.Time `json:"day"`   // 归一化后的日期（零值表示尚未解析）
	Metrics
}

// OutputColumns 输出表的固定列顺序
var OutputColumns = []string{
	"CLIENTE",
	"DATA",
	"QTDE_PERNOITES",
	"QTDE_CANCELAMENTOS",
	"QTDE_RESERVAS",
	"QTDE_VAGOS",
	"QTDE_HOSPEDES",
	"QTDE_OCUPADAS",
	"TOTAL_DIARIAS",
}
