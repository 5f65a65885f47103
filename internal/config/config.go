package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config 宿主程序的运行配置，来自环境变量，当前目录下的 .env 可选
type Config struct {
	LogLevel    slog.Level
	Precision   int    // 导出 DXF 的有效数字，0 表示精确输出
	Verify      bool   // 导出后回读校验
	Interactive bool   // 缺少路径时弹出对话框，退出前暂停
	WarningsLog string // 导入警告追加写入的文件，空表示不写
}

// Load 读取配置；.env 不存在时忽略，已有的环境变量优先
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		LogLevel:    parseLevel(getEnv("DXFSTUDIO_LOG_LEVEL", "info")),
		Precision:   getEnvInt("DXFSTUDIO_PRECISION", 0),
		Verify:      getEnvBool("DXFSTUDIO_VERIFY", false),
		Interactive: getEnvBool("DXFSTUDIO_INTERACTIVE", true),
		WarningsLog: getEnv("DXFSTUDIO_WARNINGS_LOG", ""),
	}
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
