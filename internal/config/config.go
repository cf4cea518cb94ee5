package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Excel  ExcelConfig  `toml:"excel"`
	Cache  CacheConfig  `toml:"cache"`
	Speech SpeechConfig `toml:"speech"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port int `toml:"port"`
	// StaticDir 静态文件目录，空则使用工作目录
	StaticDir string `toml:"static_dir"`
}

// DataConfig 数据文件配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ExcelConfig 进度表来源配置
type ExcelConfig struct {
	Path  string `toml:"path"`
	Sheet string `toml:"sheet"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	// TTLSeconds 数据缓存时间（秒）
	TTLSeconds int `toml:"ttl_seconds"`
}

// SpeechConfig 语音播报配置
// Command 为空时按操作系统选择默认播报命令
type SpeechConfig struct {
	Command  string   `toml:"command"`
	Args     []string `toml:"args"`
	Disabled bool     `toml:"disabled"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port: 5000,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Excel: ExcelConfig{
			Path:  "计划安排进度表.xlsx",
			Sheet: "进度表（6.3~6.16）",
		},
		Cache: CacheConfig{
			TTLSeconds: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 从可执行文件同目录下的 config.toml 加载配置
// 文件不存在时返回默认配置
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	// 环境变量覆盖（便于本地调试）
	if v := os.Getenv("SPM_EXCEL_PATH"); v != "" {
		config.Excel.Path = v
	}
	if v := os.Getenv("SPM_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}

	return config, nil
}

// EnsureDataDir 确保数据目录存在并返回绝对路径
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// SettingsPath 预警设置文件路径
func SettingsPath(dataDir string) string {
	return filepath.Join(dataDir, "alert_settings.json")
}

// AlertDataPath 活跃预警文件路径
func AlertDataPath(dataDir string) string {
	return filepath.Join(dataDir, "alert_data.json")
}

// ExportPath 缓存快照导出文件路径
func ExportPath(dataDir string) string {
	return filepath.Join(dataDir, "progress_data.json")
}

// HistoryDBPath 刷新/播报历史数据库路径
func HistoryDBPath(dataDir string) string {
	return filepath.Join(dataDir, "history.db")
}
