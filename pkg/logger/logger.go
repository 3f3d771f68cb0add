// Package logger 日志系统初始化：logrus + lumberjack 轮转。
// 各业务包通过 logrus.WithField("component", ...) 取自己的 logger，
// 这里统一配置全局输出、级别与格式。
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger 全局日志实例
var Logger = logrus.StandardLogger()

// Config 日志配置
type Config struct {
	// Level 日志级别: debug, info, warn, error
	Level string `yaml:"level"`
	// OutputFile 日志文件路径；为空则只输出到控制台
	OutputFile string `yaml:"output_file"`
	// MaxSize 单个日志文件最大大小（MB）
	MaxSize int `yaml:"max_size"`
	// MaxBackups 保留的旧日志文件数量
	MaxBackups int `yaml:"max_backups"`
	// MaxAge 旧日志文件保留天数
	MaxAge int `yaml:"max_age"`
	// Compress 是否压缩旧日志文件
	Compress bool `yaml:"compress"`
}

// DefaultConfig 默认日志配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		OutputFile: "logs/volarb.log",
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     7,
		Compress:   true,
	}
}

// Init 初始化日志系统。
// 配置写到全局 logrus，使各包 logrus.WithField 创建的 Entry 共享同一输出。
func Init(config Config) error {
	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}

	writers := []io.Writer{os.Stdout}
	if config.OutputFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.OutputFile), 0755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.OutputFile,
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}

	logrus.SetOutput(io.MultiWriter(writers...))
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "06-01-02 15:04:05",
		ForceColors:     true,
	})
	return nil
}

// InitDefault 使用默认配置初始化日志系统
func InitDefault() error {
	return Init(DefaultConfig())
}

// Debugf 记录格式化的 DEBUG 级别日志
func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

// Infof 记录格式化的 INFO 级别日志
func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
}

// Warnf 记录格式化的 WARN 级别日志
func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

// Errorf 记录格式化的 ERROR 级别日志
func Errorf(format string, args ...interface{}) {
	Logger.Errorf(format, args...)
}

// WithField 添加字段到日志上下文
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}
