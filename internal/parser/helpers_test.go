package parser

import (
	"errors"
	"fmt"

	"staypivot/internal/model"
)

// buildGrid 由 Go 值构造网格：string→文本，数值→数值，nil→空白
func buildGrid(rows ...[]any) *model.SheetGrid {
	cells := make([][]model.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]model.Cell, len(row))
		for j, v := range row {
			switch x := v.(type) {
			case nil:
			case string:
				cells[i][j] = model.TextCell(x)
			case int:
				cells[i][j] = model.NumberCell(float64(x))
			case float64:
				cells[i][j] = model.NumberCell(x)
			default:
				panic(fmt.Sprintf("unsupported cell value %T", v))
			}
		}
	}
	return model.NewSheetGrid("Planilha1", cells)
}

// blankRow n 个空白单元格
func blankRow(n int) []any {
	return make([]any, n)
}

// faultyGrid 在指定单元格上返回错误或触发 panic
type faultyGrid struct {
	*model.SheetGrid
	failAt  [2]int
	panicAt [2]int
}

func (g *faultyGrid) Cell(row, col int) (model.Cell, error) {
	if row == g.failAt[0] && col == g.failAt[1] {
		return model.Cell{}, errors.New("corrupt cell")
	}
	if row == g.panicAt[0] && col == g.panicAt[1] {
		panic("unexpected cell layout")
	}
	return g.SheetGrid.Cell(row, col)
}
