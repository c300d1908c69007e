package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"staypivot/internal/config"
	"staypivot/internal/importer"
	"staypivot/internal/service/excel"
	"staypivot/internal/store"
)

var (
	configPath = flag.String("config", "", "配置文件路径 (默认: 可执行文件同目录下的 config.toml)")
	inputPath  = flag.String("input", "", "输入文件 (覆盖配置文件)")
	outputPath = flag.String("output", "", "输出文件 (覆盖配置文件)")
	sheetName  = flag.String("sheet", "", "输入工作表 (覆盖配置文件)")
	verbose    = flag.Bool("v", false, "输出调试日志")
	initConfig = flag.Bool("init-config", false, "写出默认配置文件后退出")
	showReport = flag.String("show-report", "", "打印已保存的转换报告后退出")
	reexport   = flag.String("reexport", "", "将已落库的转换记录 (run id) 重新写出后退出")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	// 加载配置
	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if *initConfig {
		if err := config.SaveConfig(path, config.DefaultConfig()); err != nil {
			fmt.Printf("❌ ERRO: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuração padrão gravada em %s\n", path)
		return
	}
	if *showReport != "" {
		report, err := importer.ReadReport(*showReport)
		if err != nil {
			fmt.Printf("❌ ERRO: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Execução %s (%s)\n", report.RunID, report.Status)
		importer.WriteSummary(os.Stdout, report, "pt-BR")
		return
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Warnf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
	}

	// 命令行参数覆盖配置
	if *inputPath != "" {
		cfg.Input.Path = *inputPath
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *sheetName != "" {
		cfg.Input.Sheet = *sheetName
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("❌ ERRO: configuração inválida: %v\n", err)
		os.Exit(2)
	}

	line := "================================================================================"
	fmt.Println(line)
	fmt.Println("TRANSFORMAÇÃO DE DADOS PARA POWER BI")
	fmt.Println(line)
	fmt.Printf("Entrada: %s\n", cfg.Input.Path)
	fmt.Printf("Saída: %s\n", cfg.Output.Path)
	fmt.Println(line)

	// 可选落库
	var st *store.Store
	if cfg.Store.Enabled {
		st, err = store.New(cfg.Store.DBPath)
		if err != nil {
			log.Warnf("打开数据库失败，本次不落库: %v", err)
			st = nil
		} else {
			defer st.Close()
		}
	}

	writer := excel.NewWriter()
	writer.SheetName = cfg.Output.Sheet
	writer.MaxColumnWidth = cfg.Output.MaxColumnWidth
	writer.DateFormat = cfg.Output.DateFormat

	coordinator := importer.NewCoordinator(writer, st, log)
	if *reexport != "" {
		run, written, err := coordinator.Reexport(*reexport, *outputPath)
		if err != nil {
			fmt.Printf("❌ ERRO: %v\n", err)
			if st != nil {
				st.Close()
			}
			os.Exit(1)
		}
		fmt.Printf("Execução %s (%s): %d registros salvos em %s\n", run.ID, run.InputFile, written.Rows, written.Path)
		return
	}

	opts := importer.OptionsFromConfig(cfg)
	if opts.InputPath == "-" {
		opts.Input = os.Stdin
	}
	opts.Progress = func(e importer.ProgressEvent) {
		fmt.Printf("[%3d%%] %s\n", e.Percent, e.Message)
	}

	report, err := coordinator.Run(opts)
	if cfg.Output.ReportPath != "" {
		if werr := importer.WriteReport(cfg.Output.ReportPath, report); werr != nil {
			log.Warnf("写出转换报告失败: %v", werr)
		}
	}
	if err != nil {
		fmt.Printf("❌ ERRO: %v\n", err)
		if st != nil {
			st.Close()
		}
		os.Exit(1)
	}
	if report.PlainWrite {
		fmt.Println("✅ Salvo em formato simples")
	}

	fmt.Println()
	importer.WriteSummary(os.Stdout, report, cfg.Output.Locale)

	abs, err := filepath.Abs(cfg.Output.Path)
	if err != nil {
		abs = cfg.Output.Path
	}
	fmt.Printf("\n📍 Arquivo gerado em:\n   %s\n", abs)
	if st != nil && report.Stored > 0 {
		if run, err := st.GetRun(report.RunID); err == nil {
			fmt.Printf("   Banco de dados: %s (execução %s, %s, %d registros)\n", st.Path(), run.ID, run.Status, run.WrittenRows)
		} else {
			log.Warnf("查询转换记录失败: %v", err)
		}
	}

	fmt.Println()
	fmt.Println(line)
	fmt.Println("CONCLUÍDO")
	fmt.Println(line)
}
