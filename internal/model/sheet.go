package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CellKind 单元格取值类型
type CellKind int

const (
	CellEmpty  CellKind = iota // 空白/缺失
	CellText                   // 文本
	CellNumber                 // 数值
)

// Cell 原始单元格（不做表头解释）
type Cell struct {
	Kind   CellKind `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Number float64  `json:"number,omitempty"`
}

// TextCell 构造文本单元格
func TextCell(s string) Cell {
	return Cell{Kind: CellText, Text: s}
}

// NumberCell 构造数值单元格
func NumberCell(v float64) Cell {
	return Cell{Kind: CellNumber, Number: v}
}

// IsBlank 空白单元格或仅含空白字符的文本
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellEmpty:
		return true
	case CellText:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// String 单元格的文本形式（数值按最短表示输出）
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Grid 只读二维单元格网格
type Grid interface {
	Rows() int
	Cols() int
	Cell(row, col int) (Cell, error)
}

// SheetGrid 内存中的工作表网格，行可以参差不齐
type SheetGrid struct {
	Name  string
	cells [][]Cell
	cols  int
}

// NewSheetGrid 由行数据构造网格，列数取最宽的一行
func NewSheetGrid(name string, rows [][]Cell) *SheetGrid {
	cols := 0
	for _, r := range rows {
		if len(r) > cols {
			cols = len(r)
		}
	}
	return &SheetGrid{Name: name, cells: rows, cols: cols}
}

// Rows 行数
func (g *SheetGrid) Rows() int {
	return len(g.cells)
}

// Cols 列数（最宽行）
func (g *SheetGrid) Cols() int {
	return g.cols
}

// Cell 读取单元格；短行末尾之后视为空白，越界返回错误
func (g *SheetGrid) Cell(row, col int) (Cell, error) {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= g.cols {
		return Cell{}, fmt.Errorf("cell (%d,%d) out of range %dx%d", row, col, len(g.cells), g.cols)
	}
	r := g.cells[row]
	if col >= len(r) {
		return Cell{}, nil
	}
	return r[col], nil
}
