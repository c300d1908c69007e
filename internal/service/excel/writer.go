package excel

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/natefinch/atomic"
	"github.com/xuri/excelize/v2"

	"staypivot/internal/model"
)

// 输出默认值
const (
	DefaultSheetName      = "DADOS"
	DefaultMaxColumnWidth = 30
	DefaultDateFormat     = "yyyy-mm-dd hh:mm:ss"

	dateDisplayLayout = "2006-01-02 15:04:05"
)

// ErrWriteFailed 格式化写入与兜底写入均失败
var ErrWriteFailed = errors.New("failed to write output workbook")

// Writer 长表输出器
type Writer struct {
	SheetName      string
	MaxColumnWidth float64
	DateFormat     string
}

// NewWriter 创建输出器
func NewWriter() *Writer {
	return &Writer{
		SheetName:      DefaultSheetName,
		MaxColumnWidth: DefaultMaxColumnWidth,
		DateFormat:     DefaultDateFormat,
	}
}

// WriteResult 写入结果
type WriteResult struct {
	Path       string
	Rows       int
	PlainWrite bool  // 格式化写入失败后使用了无格式写入
	FirstError error // 格式化写入的失败原因
}

// WriteRecords 写出长表：表头加粗、日期格式化、列宽自适应；
// 失败时退回无格式写入，两者都失败返回 ErrWriteFailed
func (w *Writer) WriteRecords(path string, records []model.Record) (WriteResult, error) {
	result := WriteResult{Path: path, Rows: len(records)}

	err := w.writeFormatted(path, records)
	if err == nil {
		return result, nil
	}
	result.FirstError = err

	if plainErr := w.writePlain(path, records); plainErr != nil {
		return result, errors.Join(ErrWriteFailed, err, plainErr)
	}
	result.PlainWrite = true
	return result, nil
}

// Export 构建带格式的工作簿
func (w *Writer) Export(records []model.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := w.sheetName()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRows(f, sheetName, records); err != nil {
		_ = f.Close()
		return nil, err
	}

	// 表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(sheetName, 1, 1, headerStyle); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	// 日期列格式
	if len(records) > 0 {
		dateFormat := w.DateFormat
		if dateFormat == "" {
			dateFormat = DefaultDateFormat
		}
		dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFormat})
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create date style: %w", err)
		}
		last := fmt.Sprintf("B%d", len(records)+1)
		if err := f.SetCellStyle(sheetName, "B2", last, dateStyle); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("apply date style: %w", err)
		}
	}

	w.autoFit(f, sheetName, records)

	return f, nil
}

// writeFormatted 格式化写入，字节内容原子替换目标文件
func (w *Writer) writeFormatted(path string, records []model.Record) error {
	f, err := w.Export(records)
	if err != nil {
		return err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("serialize workbook: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := atomic.WriteFile(path, buf); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// writePlain 无样式、无列宽的兜底写入（默认工作表）
func (w *Writer) writePlain(path string, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRows(f, "Sheet1", records); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// writeRows 写入表头与数据行
func writeRows(f *excelize.File, sheet string, records []model.Record) error {
	header := make([]interface{}, len(model.OutputColumns))
	for i, h := range model.OutputColumns {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range records {
		row := recordRow(r)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}

// recordRow 按输出列顺序展开一条记录
func recordRow(r model.Record) []interface{} {
	row := make([]interface{}, 0, len(model.OutputColumns))
	row = append(row, r.Customer, r.Day)
	for _, v := range r.Values() {
		row = append(row, v)
	}
	return row
}

// autoFit 按最长显示文本设置列宽（最长 +2，不超过上限），尽力而为
func (w *Writer) autoFit(f *excelize.File, sheet string, records []model.Record) {
	maxWidth := w.MaxColumnWidth
	if maxWidth <= 0 {
		maxWidth = DefaultMaxColumnWidth
	}

	for col, widthChars := range columnWidths(records) {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			continue
		}
		width := min(float64(widthChars+2), maxWidth)
		_ = f.SetColWidth(sheet, name, name, width)
	}
}

// columnWidths 计算每列最长显示文本的字符数（含表头）
func columnWidths(records []model.Record) []int {
	widths := make([]int, len(model.OutputColumns))
	for i, h := range model.OutputColumns {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, r := range records {
		texts := make([]string, 0, len(widths))
		texts = append(texts, r.Customer, displayDate(r.Day))
		for _, v := range r.Values() {
			texts = append(texts, strconv.FormatFloat(v, 'f', -1, 64))
		}
		for i, s := range texts {
			if n := utf8.RuneCountInString(s); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

func displayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateDisplayLayout)
}

func (w *Writer) sheetName() string {
	if w.SheetName == "" {
		return DefaultSheetName
	}
	return w.SheetName
}
