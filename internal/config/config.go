package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Input  InputConfig  `toml:"input"`
	Output OutputConfig `toml:"output"`
	Scan   ScanConfig   `toml:"scan"`
	Store  StoreConfig  `toml:"store"`
}

// InputConfig 输入文件配置
type InputConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"`
}

// OutputConfig 输出文件配置
type OutputConfig struct {
	Path           string  `toml:"path"`
	Sheet          string  `toml:"sheet"`
	MaxColumnWidth float64 `toml:"max_column_width"`
	DateFormat     string  `toml:"date_format"`
	Locale         string  `toml:"locale"`      // 汇总输出的语言区域
	ReportPath     string  `toml:"report_path"` // 转换报告 JSON，为空则不写
}

// ScanConfig 宽表扫描边界
type ScanConfig struct {
	MaxHeaderColumns int `toml:"max_header_columns"`
	MaxCustomerRows  int `toml:"max_customer_rows"`
	FirstCustomerRow int `toml:"first_customer_row"`
	BlockWidth       int `toml:"block_width"`
}

// StoreConfig SQLite 落库配置
type StoreConfig struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db_path"`
}

// 环境变量覆盖
const (
	EnvInputPath  = "STAYPIVOT_INPUT"
	EnvOutputPath = "STAYPIVOT_OUTPUT"
)

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Input: InputConfig{
			Path:  filepath.Join("raw", "Palmsnov11.xlsx"),
			Sheet: "Planilha1",
		},
		Output: OutputConfig{
			Path:           filepath.Join("transformadas", "tabela_transformada_final_POWERBI.xlsx"),
			Sheet:          "DADOS",
			MaxColumnWidth: 30,
			DateFormat:     "yyyy-mm-dd hh:mm:ss",
			Locale:         "pt-BR",
		},
		Scan: ScanConfig{
			MaxHeaderColumns: 300,
			MaxCustomerRows:  200,
			FirstCustomerRow: 3,
			BlockWidth:       7,
		},
		Store: StoreConfig{
			Enabled: false,
			DBPath:  filepath.Join("data", "staypivot.db"),
		},
	}
}

// Validate 校验配置
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Input.Path == "" {
		errs = append(errs, errors.New("input.path is required"))
	}
	if c.Output.Path == "" {
		errs = append(errs, errors.New("output.path is required"))
	}
	if c.Scan.MaxHeaderColumns <= 0 {
		errs = append(errs, fmt.Errorf("scan.max_header_columns must be positive, got %d", c.Scan.MaxHeaderColumns))
	}
	if c.Scan.MaxCustomerRows <= 0 {
		errs = append(errs, fmt.Errorf("scan.max_customer_rows must be positive, got %d", c.Scan.MaxCustomerRows))
	}
	if c.Scan.FirstCustomerRow <= 0 {
		errs = append(errs, fmt.Errorf("scan.first_customer_row must be positive, got %d", c.Scan.FirstCustomerRow))
	}
	if c.Scan.BlockWidth <= 0 {
		errs = append(errs, fmt.Errorf("scan.block_width must be positive, got %d", c.Scan.BlockWidth))
	}
	if c.Store.Enabled && c.Store.DBPath == "" {
		errs = append(errs, errors.New("store.db_path is required when store is enabled"))
	}
	return errors.Join(errs...)
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfig 从 config.toml 加载配置；文件不存在时使用默认配置
func LoadConfig(path string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// 环境变量覆盖
	if v := os.Getenv(EnvInputPath); v != "" {
		config.Input.Path = v
	}
	if v := os.Getenv(EnvOutputPath); v != "" {
		config.Output.Path = v
	}

	return config, nil
}

// SaveConfig 保存配置到指定路径
func SaveConfig(path string, config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
