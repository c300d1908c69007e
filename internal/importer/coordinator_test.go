package importer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"staypivot/internal/config"
	"staypivot/internal/model"
	"staypivot/internal/parser"
	"staypivot/internal/service/excel"
	"staypivot/internal/store"
)

// buildWideWorkbook 写入一个宽表：两个日期块（含一个重复日期块）、三个客户
func buildWideWorkbook(t *testing.T) string {
	t.Helper()

	wb := excelize.NewFile()
	t.Cleanup(func() { _ = wb.Close() })

	sheet := "Planilha1"
	if err := wb.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}

	rows := map[int][]interface{}{
		1: {"Cliente", "02/11/2025 Dom", nil, nil, nil, nil, nil, nil, "01/11/2025 Sab", nil, nil, nil, nil, nil, nil, "Total geral"},
		2: {nil, "Pernoites", "Cancel.", "Reservas", "Vagos", "Hóspedes", "Ocupadas", "Diárias"},
		4: {"Pousada Mar", "10", "1", "2", "3", "4", "5", "1.234,56", 7, 0, 1, 0, 9, 8, "R$ 99,90"},
		5: {"  Hotel Palms ", "-", "", "garbage", "1", "2", "3", "4", "1", "1", "1", "1", "1", "1", "1"},
		6: {"Alfa Inn", 1, 1, 1, 1, 1, 1, 1, 2, 2, 2, 2, 2, 2, 2},
	}
	for r, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, r)
		v := row
		if err := wb.SetSheetRow(sheet, cell, &v); err != nil {
			t.Fatalf("SetSheetRow failed: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "Palmsnov11.xlsx")
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	return path
}

func newStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "staypivot.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	input := buildWideWorkbook(t)
	output := filepath.Join(t.TempDir(), "transformadas", "tabela.xlsx")
	st := newStore(t)

	var events []ProgressEvent
	opts := Options{
		InputPath:  input,
		Sheet:      "Planilha1",
		OutputPath: output,
		Scan:       parser.DefaultScanOptions(),
		Progress:   func(e ProgressEvent) { events = append(events, e) },
	}

	report, err := NewCoordinator(nil, st, nil).Run(opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Status != model.RunStatusCompleted {
		t.Fatalf("status=%s", report.Status)
	}
	if report.DateBlocks != 2 || report.Customers != 3 {
		t.Fatalf("blocks=%d customers=%d", report.DateBlocks, report.Customers)
	}
	if report.Reshaped != 6 || report.Summary.Records != 6 {
		t.Fatalf("reshaped=%d records=%d", report.Reshaped, report.Summary.Records)
	}
	if report.Defaulted != 1 {
		t.Fatalf("defaulted=%d, want 1", report.Defaulted)
	}
	if report.Summary.UniqueCustomers != 3 || report.Summary.UniqueDays != 2 {
		t.Fatalf("summary=%+v", report.Summary)
	}
	if got, want := report.Summary.TotalDailyRate, 1234.56+99.90+4+1+1+2; abs(got-want) > 1e-9 {
		t.Fatalf("TotalDailyRate=%v, want %v", got, want)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(excel.DefaultSheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 7 {
		t.Fatalf("output rows=%d, want 7", len(rows))
	}
	// 01/11 在前，同日按客户名升序
	wantOrder := []string{"Alfa Inn", "Hotel Palms", "Pousada Mar", "Alfa Inn", "Hotel Palms", "Pousada Mar"}
	for i, name := range wantOrder {
		if rows[i+1][0] != name {
			t.Fatalf("row %d customer=%q, want %q", i+1, rows[i+1][0], name)
		}
	}
	if rows[3][8] != "99.9" {
		t.Fatalf("Pousada Mar 01/11 TOTAL_DIARIAS=%q, want 99.9", rows[3][8])
	}

	n, err := st.CountRecords(report.RunID)
	if err != nil {
		t.Fatalf("CountRecords: %v", err)
	}
	if n != 6 || report.Stored != 6 {
		t.Fatalf("stored=%d count=%d, want 6", report.Stored, n)
	}
	run, err := st.GetRun(report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != model.RunStatusCompleted || run.WrittenRows != 6 {
		t.Fatalf("run=%+v", run)
	}

	if len(events) == 0 || events[len(events)-1].Percent != 100 {
		t.Fatalf("unexpected progress events: %+v", events)
	}
	for i := 1; i < len(events); i++ {
		if events[i].Percent < events[i-1].Percent {
			t.Fatalf("progress went backwards: %+v", events)
		}
	}
}

func TestRun_MissingInputIsFatal(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	output := filepath.Join(t.TempDir(), "out.xlsx")

	report, err := NewCoordinator(nil, st, nil).Run(Options{
		InputPath:  filepath.Join(t.TempDir(), "missing.xlsx"),
		Sheet:      "Planilha1",
		OutputPath: output,
	})
	if !errors.Is(err, excel.ErrInputNotFound) {
		t.Fatalf("err=%v, want ErrInputNotFound", err)
	}
	if report.Status != model.RunStatusFailed {
		t.Fatalf("status=%s", report.Status)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("output should not be written, stat err=%v", statErr)
	}

	run, err := st.GetRun(report.RunID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != model.RunStatusFailed || !strings.Contains(run.ErrorMessage, "input file not found") {
		t.Fatalf("run=%+v", run)
	}
}

func TestRun_WriteFailureReported(t *testing.T) {
	t.Parallel()

	input := buildWideWorkbook(t)
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	report, err := NewCoordinator(nil, nil, nil).Run(Options{
		InputPath:  input,
		Sheet:      "Planilha1",
		OutputPath: filepath.Join(blocker, "out.xlsx"),
	})
	if !errors.Is(err, excel.ErrWriteFailed) {
		t.Fatalf("err=%v, want ErrWriteFailed", err)
	}
	if report.Status != model.RunStatusFailed || report.Summary.Records != 6 {
		t.Fatalf("report=%+v", report)
	}
}

func TestRun_FromStream(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile(buildWideWorkbook(t))
	if err != nil {
		t.Fatalf("read workbook: %v", err)
	}
	output := filepath.Join(t.TempDir(), "out.xlsx")

	report, err := NewCoordinator(nil, nil, nil).Run(Options{
		InputPath:  "-",
		Input:      bytes.NewReader(data),
		OutputPath: output,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Sheet != "Planilha1" || report.Summary.Records != 6 {
		t.Fatalf("report=%+v", report)
	}
}

func TestReexport_StoredRun(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	coordinator := NewCoordinator(nil, st, nil)
	report, err := coordinator.Run(Options{
		InputPath:  buildWideWorkbook(t),
		Sheet:      "Planilha1",
		OutputPath: filepath.Join(t.TempDir(), "first.xlsx"),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	again := filepath.Join(t.TempDir(), "again.xlsx")
	run, written, err := coordinator.Reexport(report.RunID, again)
	if err != nil {
		t.Fatalf("Reexport failed: %v", err)
	}
	if run.ID != report.RunID || written.Rows != 6 || written.Path != again {
		t.Fatalf("run=%+v written=%+v", run, written)
	}

	f, err := excelize.OpenFile(again)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	rows, err := f.GetRows(excel.DefaultSheetName)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 7 || rows[1][0] != "Alfa Inn" {
		t.Fatalf("rows=%v", rows)
	}

	if _, _, err := coordinator.Reexport("missing", again); !errors.Is(err, store.ErrRunNotFound) {
		t.Fatalf("err=%v, want ErrRunNotFound", err)
	}
	if _, _, err := NewCoordinator(nil, nil, nil).Reexport(report.RunID, again); err == nil {
		t.Fatalf("expected error without a store")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Input.Path = "in.xlsx"
	cfg.Scan.MaxHeaderColumns = 42

	opts := OptionsFromConfig(cfg)
	if opts.InputPath != "in.xlsx" || opts.Sheet != "Planilha1" || opts.OutputPath != cfg.Output.Path {
		t.Fatalf("opts=%+v", opts)
	}
	if opts.Scan.MaxHeaderColumns != 42 || opts.Scan.MaxCustomerRows != 200 || opts.Scan.FirstCustomerRow != 3 || opts.Scan.BlockWidth != 7 {
		t.Fatalf("scan=%+v", opts.Scan)
	}
}

func TestWriteSummary_BrazilianLocale(t *testing.T) {
	t.Parallel()

	report := &model.RunReport{
		Summary: Summarize([]model.Record{
			{Customer: "B", Day: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC), Metrics: model.Metrics{TotalDailyRate: 1000}},
			{Customer: "A", Day: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), Metrics: model.Metrics{TotalDailyRate: 234.56}},
		}),
	}

	var buf bytes.Buffer
	WriteSummary(&buf, report, "pt-BR")
	out := buf.String()

	for _, want := range []string{
		"Total de registros: 2",
		"Clientes únicos: 2",
		"Período: 01/11/2025 a 02/11/2025",
		"Dias únicos: 2",
		"R$ 1.234,56",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
