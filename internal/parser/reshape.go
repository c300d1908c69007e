package parser

import (
	"fmt"

	"staypivot/internal/model"
)

// Reshape 将宽表展开为长表：客户为外层循环，日期块为内层循环。
// 日期块最后一列超出网格宽度时跳过该客户/日期对；
// 读取失败时输出全 0 记录，保证客户/日期对不丢失。
func Reshape(g model.Grid, customers []model.Customer, blocks []model.DateBlock, opts ScanOptions) ReshapeResult {
	opts = opts.withDefaults()
	width := g.Cols()

	result := ReshapeResult{
		Records: make([]model.Record, 0, len(customers)*len(blocks)),
	}

	for _, cust := range customers {
		for _, block := range blocks {
			if block.Column+opts.BlockWidth-1 >= width {
				result.Truncated++
				continue
			}

			record := model.Record{
				Customer: cust.Name,
				Label:    block.Label,
			}

			metrics, defaulted, err := readMetrics(g, cust.Row, block.Column)
			if err != nil {
				result.Recovered++
			} else {
				record.Metrics = metrics
				result.DefaultedCells += defaulted
			}
			result.Records = append(result.Records, record)
		}
	}

	return result
}

// readMetrics 读取一个日期块内的七项指标，返回回落为 0 的单元格数量
func readMetrics(g model.Grid, row, col int) (m model.Metrics, defaulted int, err error) {
	defer func() {
		if r := recover(); r != nil {
			m, defaulted = model.Metrics{}, 0
			err = fmt.Errorf("read block at (%d,%d): %v", row, col, r)
		}
	}()

	var values [model.MetricCount]float64
	for i := range values {
		cell, cerr := g.Cell(row, col+i)
		if cerr != nil {
			return model.Metrics{}, 0, fmt.Errorf("read block at (%d,%d): %w", row, col, cerr)
		}
		v, ok := ParseLocaleNumberStrict(cell)
		if !ok {
			defaulted++
		}
		values[i] = v
	}
	return model.MetricsFromValues(values), defaulted, nil
}
