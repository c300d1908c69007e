package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staypivot/internal/model"
)

// ErrRunNotFound 转换记录不存在
var ErrRunNotFound = errors.New("run not found")

// Run 一次转换的落库记录
type Run struct {
	ID           string
	InputFile    string
	SheetName    string
	OutputFile   string
	DateBlocks   int
	Customers    int
	ReshapedRows int
	WrittenRows  int
	BadDates     int
	Duplicates   int
	Status       model.RunStatus
	ErrorMessage string
	StartedAt    time.Time
	CompletedAt  *time.Time
}

// CreateRun 创建转换记录，runID 为空时自动生成
func (s *Store) CreateRun(runID, inputFile, sheetName, outputFile string) (string, error) {
	if runID == "" {
		runID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT INTO runs (id, input_file, sheet_name, output_file, status)
		VALUES (?, ?, ?, ?, ?)
	`, runID, inputFile, sheetName, outputFile, model.RunStatusProcessing)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return runID, nil
}

// FinishRun 按报告回填统计并结束转换记录
func (s *Store) FinishRun(report *model.RunReport, errorMessage string) error {
	res, err := s.db.Exec(`
		UPDATE runs SET
			date_blocks = ?,
			customers = ?,
			reshaped_rows = ?,
			written_rows = ?,
			bad_dates = ?,
			duplicates = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, report.DateBlocks, report.Customers, report.Reshaped, report.Summary.Records,
		report.BadDates, report.Duplicates, report.Status, errorMessage, report.RunID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, report.RunID)
	}
	return nil
}

// GetRun 查询转换记录
func (s *Store) GetRun(runID string) (*Run, error) {
	var (
		r         Run
		status    string
		completed sql.NullTime
	)
	err := s.db.QueryRow(`
		SELECT id, input_file, sheet_name, output_file,
			date_blocks, customers, reshaped_rows, written_rows, bad_dates, duplicates,
			status, error_message, started_at, completed_at
		FROM runs WHERE id = ?
	`, runID).Scan(
		&r.ID, &r.InputFile, &r.SheetName, &r.OutputFile,
		&r.DateBlocks, &r.Customers, &r.ReshapedRows, &r.WrittenRows, &r.BadDates, &r.Duplicates,
		&status, &r.ErrorMessage, &r.StartedAt, &completed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	r.Status = model.RunStatus(status)
	if completed.Valid {
		t := completed.Time
		r.CompletedAt = &t
	}
	return &r, nil
}
