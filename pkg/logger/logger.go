package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger *zerolog.Logger

func init() {
	logger := zerolog.New(io.Discard)
	Logger = &logger
}

// Init 初始化 zerolog 日志
// level: 日志级别 ("trace", "debug", "info", "warn", "error")
// file: 日志文件路径，为空时不写文件
// console: 是否输出到控制台（TUI 运行时关闭，避免破坏界面）
func Init(level string, file string, console bool) error {
	logLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}

	var writers []io.Writer

	if console {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05"})
	}

	if file != "" {
		fileWriter, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		writers = append(writers, fileWriter)
	}

	var output io.Writer = io.Discard
	if len(writers) > 0 {
		output = zerolog.MultiLevelWriter(writers...)
	}

	logger := log.Output(output).With().Timestamp().Logger().Level(logLevel)

	Logger = &logger
	return nil
}

// Get 返回全局 logger 实例
// 未调用 Init 时返回输出到 /dev/null 的默认 logger
func Get() *zerolog.Logger {
	return Logger
}
