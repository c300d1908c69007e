package model

import "time"

// RunStatus 转换任务状态
type RunStatus string

const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// Summary 转换结果统计
type Summary struct {
	Records         int       `json:"records"`
	UniqueCustomers int       `json:"uniqueCustomers"`
	UniqueDays      int       `json:"uniqueDays"`
	First           time.Time `json:"first"`
	Last            time.Time `json:"last"`
	TotalDailyRate  float64   `json:"totalDailyRate"`
}

// RunReport 一次转换的完整报告
type RunReport struct {
	RunID      string        `json:"runId"`
	InputPath  string        `json:"inputPath"`
	OutputPath string        `json:"outputPath"`
	Sheet      string        `json:"sheet"`
	GridRows   int           `json:"gridRows"`
	GridCols   int           `json:"gridCols"`
	DateBlocks int           `json:"dateBlocks"`
	Customers  int           `json:"customers"`
	Reshaped   int           `json:"reshaped"`  // 归一化前的记录数
	Truncated  int           `json:"truncated"` // 越界被跳过的客户/日期对
	Recovered  int           `json:"recovered"` // 读取失败后补零的记录
	Defaulted  int           `json:"defaulted"` // 回落为 0 的单元格
	BadDates   int           `json:"badDates"`  // 日期无法解析被丢弃
	Duplicates int           `json:"duplicates"`
	PlainWrite bool          `json:"plainWrite"` // 使用了无格式的兜底写入
	Stored     int           `json:"stored"`
	Status     RunStatus     `json:"status"`
	Summary    Summary       `json:"summary"`
	Duration   time.Duration `json:"duration"`
}
