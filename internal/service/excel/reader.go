package excel

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"staypivot/internal/model"
)

var (
	// ErrInputNotFound 输入文件不存在
	ErrInputNotFound = errors.New("input file not found")
	// ErrSheetNotFound 工作表不存在
	ErrSheetNotFound = errors.New("sheet not found")
)

// Reader 将单个工作表按原始值读入网格（不解释表头）
type Reader struct{}

// NewReader 创建读取器
func NewReader() *Reader {
	return &Reader{}
}

// LoadGrid 从文件加载指定工作表；sheet 为空时取第一个工作表
func (r *Reader) LoadGrid(path, sheet string) (*model.SheetGrid, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("stat input %s: %w", path, err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel %s: %w", path, err)
	}
	defer file.Close()

	return r.loadFromFile(file, sheet)
}

// LoadGridFromReader 从流加载指定工作表
func (r *Reader) LoadGridFromReader(reader io.Reader, sheet string) (*model.SheetGrid, error) {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer file.Close()

	return r.loadFromFile(file, sheet)
}

// loadFromFile 读取原始值并按单元格类型分类
func (r *Reader) loadFromFile(file *excelize.File, sheet string) (*model.SheetGrid, error) {
	if sheet == "" {
		sheet = file.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
		}
	}
	if idx, err := file.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrSheetNotFound, sheet, strings.Join(file.GetSheetList(), ", "))
	}

	rows, err := file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	cells := make([][]model.Cell, len(rows))
	for i, row := range rows {
		cells[i] = make([]model.Cell, len(row))
		for j, raw := range row {
			if raw == "" {
				continue
			}
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				cells[i][j] = model.TextCell(raw)
				continue
			}
			cellType, err := file.GetCellType(sheet, name)
			if err != nil {
				cellType = excelize.CellTypeUnset
			}
			cells[i][j] = classifyCell(cellType, raw)
		}
	}

	return model.NewSheetGrid(sheet, cells), nil
}

// classifyCell 按存储类型还原单元格：字符串保持文本，数值与布尔转为数值
func classifyCell(cellType excelize.CellType, raw string) model.Cell {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError, excelize.CellTypeDate:
		return model.TextCell(raw)
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return model.NumberCell(1)
		}
		return model.NumberCell(0)
	default:
		// 无类型、数值与公式缓存值：能解析为数字即视为数值
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return model.NumberCell(f)
		}
		return model.TextCell(raw)
	}
}
