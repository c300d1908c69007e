package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"staypivot/internal/config"
	"staypivot/internal/model"
	"staypivot/internal/parser"
	"staypivot/internal/service/excel"
	"staypivot/internal/store"
)

// Options 转换选项
type Options struct {
	InputPath  string
	Input      io.Reader // 非 nil 时从流读取，InputPath 仅用于记录
	Sheet      string
	OutputPath string
	Scan       parser.ScanOptions
	Progress   func(ProgressEvent)
}

// OptionsFromConfig 由应用配置构建转换选项
func OptionsFromConfig(cfg *config.AppConfig) Options {
	return Options{
		InputPath:  cfg.Input.Path,
		Sheet:      cfg.Input.Sheet,
		OutputPath: cfg.Output.Path,
		Scan: parser.ScanOptions{
			MaxHeaderColumns: cfg.Scan.MaxHeaderColumns,
			MaxCustomerRows:  cfg.Scan.MaxCustomerRows,
			FirstCustomerRow: cfg.Scan.FirstCustomerRow,
			BlockWidth:       cfg.Scan.BlockWidth,
		},
	}
}

// Coordinator 转换协调器：加载 → 扫描 → 重塑 → 归一化 → 写出 → 落库，单次同步执行
type Coordinator struct {
	reader *excel.Reader
	writer *excel.Writer
	store  *store.Store // 可为 nil
	log    *logrus.Logger
}

// NewCoordinator 创建转换协调器；st 为 nil 时不落库
func NewCoordinator(writer *excel.Writer, st *store.Store, log *logrus.Logger) *Coordinator {
	if writer == nil {
		writer = excel.NewWriter()
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Coordinator{
		reader: excel.NewReader(),
		writer: writer,
		store:  st,
		log:    log,
	}
}

// Run 执行一次转换。输入错误为致命错误；写出失败时报告中状态为 failed 并返回错误。
func (c *Coordinator) Run(opts Options) (*model.RunReport, error) {
	startTime := time.Now()

	report := &model.RunReport{
		RunID:      uuid.New().String(),
		InputPath:  opts.InputPath,
		OutputPath: opts.OutputPath,
		Sheet:      opts.Sheet,
		Status:     model.RunStatusProcessing,
	}
	log := c.log.WithFields(logrus.Fields{
		"run_id": report.RunID,
		"input":  filepath.Base(opts.InputPath),
	})

	st := c.beginRun(log, report)

	// 1. 加载
	reportProgress(opts.Progress, 0, StageLoad, fmt.Sprintf("Carregando %s", opts.InputPath))
	grid, err := c.loadGrid(opts)
	if err != nil {
		log.WithField("stage", StageLoad).WithError(err).Error("load input failed")
		return c.fail(st, log, report, startTime, fmt.Errorf("load input: %w", err))
	}
	report.Sheet = grid.Name
	report.GridRows = grid.Rows()
	report.GridCols = grid.Cols()
	reportProgress(opts.Progress, 15, StageLoad,
		fmt.Sprintf("Arquivo carregado: %d linhas × %d colunas", grid.Rows(), grid.Cols()))

	// 2. 扫描日期块与客户
	blocks := parser.FindDateBlocks(grid, opts.Scan)
	customers := parser.FindCustomers(grid, opts.Scan)
	report.DateBlocks = len(blocks)
	report.Customers = len(customers)
	log.WithFields(logrus.Fields{
		"stage":      StageScan,
		"sheet":      grid.Name,
		"dateBlocks": len(blocks),
		"customers":  len(customers),
	}).Info("grid scanned")
	reportProgress(opts.Progress, 30, StageScan,
		fmt.Sprintf("Datas encontradas: %d, clientes encontrados: %d", len(blocks), len(customers)))

	// 3. 重塑
	reshaped := parser.Reshape(grid, customers, blocks, opts.Scan)
	report.Reshaped = len(reshaped.Records)
	report.Truncated = reshaped.Truncated
	report.Recovered = reshaped.Recovered
	report.Defaulted = reshaped.DefaultedCells
	if reshaped.Recovered > 0 {
		log.WithField("stage", StageReshape).Warnf("%d customer/date pairs zeroed after read failures", reshaped.Recovered)
	}
	reportProgress(opts.Progress, 50, StageReshape,
		fmt.Sprintf("Dados transformados: %d registros", len(reshaped.Records)))

	// 4. 归一化
	normalized := parser.Normalize(reshaped.Records)
	report.BadDates = normalized.BadDates
	report.Duplicates = normalized.Duplicates
	report.Summary = Summarize(normalized.Records)
	log.WithFields(logrus.Fields{
		"stage":      StageNormalize,
		"records":    len(normalized.Records),
		"badDates":   normalized.BadDates,
		"duplicates": normalized.Duplicates,
	}).Info("records normalized")
	reportProgress(opts.Progress, 65, StageNormalize,
		fmt.Sprintf("Registros finais: %d", len(normalized.Records)))

	// 5. 写出
	reportProgress(opts.Progress, 70, StageWrite, "Salvando arquivo Excel...")
	written, err := c.writer.WriteRecords(opts.OutputPath, normalized.Records)
	report.PlainWrite = written.PlainWrite
	if written.FirstError != nil {
		log.WithField("stage", StageWrite).WithError(written.FirstError).Warn("formatted write failed")
	}
	if err != nil {
		log.WithField("stage", StageWrite).WithError(err).Error("write output failed")
		return c.fail(st, log, report, startTime, err)
	}
	reportProgress(opts.Progress, 85, StageWrite, fmt.Sprintf("Excel salvo: %s", opts.OutputPath))

	// 6. 落库
	if st != nil {
		if err := st.BatchInsertRecords(report.RunID, normalized.Records); err != nil {
			log.WithField("stage", StageStore).WithError(err).Error("store records failed")
			return c.fail(st, log, report, startTime, fmt.Errorf("store records: %w", err))
		}
		stored, err := st.CountRecords(report.RunID)
		if err != nil {
			return c.fail(st, log, report, startTime, fmt.Errorf("count stored records: %w", err))
		}
		if stored != len(normalized.Records) {
			return c.fail(st, log, report, startTime,
				fmt.Errorf("stored %d records, expected %d", stored, len(normalized.Records)))
		}
		report.Stored = stored
		reportProgress(opts.Progress, 95, StageStore, fmt.Sprintf("Registros gravados no banco: %d", report.Stored))
	}

	report.Status = model.RunStatusCompleted
	report.Duration = time.Since(startTime)
	c.finishRun(st, log, report, "")
	reportProgress(opts.Progress, 100, StageDone, "Concluído")

	return report, nil
}

// loadGrid 按选项从流或文件加载网格
func (c *Coordinator) loadGrid(opts Options) (*model.SheetGrid, error) {
	if opts.Input != nil {
		return c.reader.LoadGridFromReader(opts.Input, opts.Sheet)
	}
	return c.reader.LoadGrid(opts.InputPath, opts.Sheet)
}

// Reexport 将已落库的某次转换重新写出为 Excel，不重新读取输入
func (c *Coordinator) Reexport(runID, outputPath string) (*store.Run, excel.WriteResult, error) {
	if c.store == nil {
		return nil, excel.WriteResult{}, errors.New("store is not enabled")
	}
	run, err := c.store.GetRun(runID)
	if err != nil {
		return nil, excel.WriteResult{}, err
	}
	if run.Status != model.RunStatusCompleted {
		return run, excel.WriteResult{}, fmt.Errorf("run %s is %s, only completed runs can be exported", runID, run.Status)
	}
	records, err := c.store.ListRecords(runID)
	if err != nil {
		return run, excel.WriteResult{}, err
	}
	if outputPath == "" {
		outputPath = run.OutputFile
	}
	c.log.WithFields(logrus.Fields{"run_id": runID, "records": len(records)}).Info("re-exporting stored run")
	written, err := c.writer.WriteRecords(outputPath, records)
	return run, written, err
}

// beginRun 登记转换记录；登记失败时本次不落库，不影响转换本身
func (c *Coordinator) beginRun(log *logrus.Entry, report *model.RunReport) *store.Store {
	if c.store == nil {
		return nil
	}
	if _, err := c.store.CreateRun(report.RunID, report.InputPath, report.Sheet, report.OutputPath); err != nil {
		log.WithField("stage", StageStore).WithError(err).Warn("create run log failed, store disabled for this run")
		return nil
	}
	return c.store
}

// finishRun 回填转换记录
func (c *Coordinator) finishRun(st *store.Store, log *logrus.Entry, report *model.RunReport, errorMessage string) {
	if st == nil {
		return
	}
	if err := st.FinishRun(report, errorMessage); err != nil {
		log.WithField("stage", StageStore).WithError(err).Warn("update run log failed")
	}
}

// fail 标记失败并返回错误
func (c *Coordinator) fail(st *store.Store, log *logrus.Entry, report *model.RunReport, startTime time.Time, err error) (*model.RunReport, error) {
	report.Status = model.RunStatusFailed
	report.Duration = time.Since(startTime)
	c.finishRun(st, log, report, err.Error())
	return report, err
}
