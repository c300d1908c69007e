package parser

import "staypivot/internal/model"

// 默认扫描边界
const (
	DefaultMaxHeaderColumns = 300
	DefaultMaxCustomerRows  = 200
	DefaultFirstCustomerRow = 3
	DefaultBlockWidth       = model.MetricCount
)

// ScanOptions 定位与重塑参数
type ScanOptions struct {
	HeaderRow        int // 日期表头所在行
	MaxHeaderColumns int // 表头最多扫描的列数
	FirstCustomerRow int // 客户名称起始行（之前为表头）
	MaxCustomerRows  int // 最多扫描的行数（含表头行）
	BlockWidth       int // 每个日期块的列数
}

// DefaultScanOptions 默认参数
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		HeaderRow:        0,
		MaxHeaderColumns: DefaultMaxHeaderColumns,
		FirstCustomerRow: DefaultFirstCustomerRow,
		MaxCustomerRows:  DefaultMaxCustomerRows,
		BlockWidth:       DefaultBlockWidth,
	}
}

// withDefaults 非正数的边界回落到默认值（表头行除外，负数才回落）
func (o ScanOptions) withDefaults() ScanOptions {
	d := DefaultScanOptions()
	if o.HeaderRow < 0 {
		o.HeaderRow = d.HeaderRow
	}
	if o.MaxHeaderColumns <= 0 {
		o.MaxHeaderColumns = d.MaxHeaderColumns
	}
	if o.FirstCustomerRow <= 0 {
		o.FirstCustomerRow = d.FirstCustomerRow
	}
	if o.MaxCustomerRows <= 0 {
		o.MaxCustomerRows = d.MaxCustomerRows
	}
	if o.BlockWidth <= 0 {
		o.BlockWidth = d.BlockWidth
	}
	return o
}

// ReshapeResult 重塑结果
type ReshapeResult struct {
	Records        []model.Record
	Truncated      int // 日期块超出网格宽度而跳过的客户/日期对
	Recovered      int // 读取失败后以全 0 补齐的记录
	DefaultedCells int // 无法解析而回落为 0 的非空单元格
}

// NormalizeResult 归一化结果
type NormalizeResult struct {
	Records    []model.Record
	BadDates   int // 日期无法解析被丢弃
	Duplicates int // 完全重复被移除
}
