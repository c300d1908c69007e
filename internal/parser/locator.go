package parser

import "staypivot/internal/model"

// FindDateBlocks 扫描表头行，返回各日期块的起始列与日期标签（按列顺序）
func FindDateBlocks(g model.Grid, opts ScanOptions) []model.DateBlock {
	opts = opts.withDefaults()
	if opts.HeaderRow >= g.Rows() {
		return nil
	}

	limit := min(opts.MaxHeaderColumns, g.Cols())
	var blocks []model.DateBlock
	for col := 0; col < limit; col++ {
		cell, err := g.Cell(opts.HeaderRow, col)
		if err != nil || cell.Kind != model.CellText {
			continue
		}
		if !IsDateHeader(cell.Text) {
			continue
		}
		label, ok := DateLabel(cell.Text)
		if !ok {
			continue
		}
		blocks = append(blocks, model.DateBlock{Column: col, Label: label})
	}
	return blocks
}

// FindCustomers 扫描第 0 列，返回客户名称（按行顺序）。
// 客户的数据行按其在列表中的序号推算：FirstCustomerRow + 序号，空行不占序号。
func FindCustomers(g model.Grid, opts ScanOptions) []model.Customer {
	opts = opts.withDefaults()
	if g.Cols() == 0 {
		return nil
	}

	limit := min(opts.MaxCustomerRows, g.Rows())
	var customers []model.Customer
	for row := opts.FirstCustomerRow; row < limit; row++ {
		cell, err := g.Cell(row, 0)
		if err != nil || cell.IsBlank() {
			continue
		}
		name := NormalizeCustomerName(cell.String())
		if name == "" {
			continue
		}
		customers = append(customers, model.Customer{Name: name, Row: opts.FirstCustomerRow + len(customers)})
	}
	return customers
}
