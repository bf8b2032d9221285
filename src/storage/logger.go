package storage

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Logger 日志记录器结构体
// 控制台输出原始进度信息，日志文件记录带时间戳的条目
type Logger struct {
	console  io.Writer  // 控制台输出
	file     *os.File   // 日志文件句柄，可以为空
	filename string     // 日志文件路径
	mu       sync.Mutex // 互斥锁
	verbose  bool       // 控制台是否输出 DEBUG
}

// NewLogger 创建新的日志记录器，控制台为标准输出
// 参数:
//
//	filename: 日志文件路径，为空时只输出到控制台
//
// 返回值:
//
//	*Logger: 日志记录器实例
//	error: 创建过程中的错误
func NewLogger(filename string) (*Logger, error) {
	return NewLoggerWithWriter(os.Stdout, filename)
}

// NewLoggerWithWriter 使用指定的控制台输出创建日志记录器
func NewLoggerWithWriter(console io.Writer, filename string) (*Logger, error) {
	l := &Logger{console: console, filename: filename}
	if filename == "" {
		return l, nil
	}

	// 打开或创建日志文件，权限设置为0644
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	l.file = file
	return l, nil
}

// SetVerbose 控制台是否输出调试信息
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// Close 关闭日志文件
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Log 记录日志方法
// 参数:
//
//	level: 日志级别
//	message: 日志消息内容
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 控制台: INFO 原样输出，其它级别带级别前缀
	if level > DEBUG || l.verbose {
		switch level {
		case INFO:
			fmt.Fprintln(l.console, message)
		default:
			fmt.Fprintf(l.console, "%s: %s\n", level.String(), message)
		}
	}

	if l.file == nil {
		return
	}

	// 格式化日志条目: [时间] 级别: 消息
	entry := fmt.Sprintf("[%s] %s: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		level.String(),
		strings.TrimRight(message, "\n"))

	_, _ = l.file.WriteString(entry)
}

// Println 在控制台输出空行，不写入日志文件
func (l *Logger) Println() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// CheckRotate 日志文件超过 maxSize 时轮转
// 参数：
// maxSize：形如 "10 * 1024 * 1024" 的大小表达式
func (l *Logger) CheckRotate(maxSize string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	limit, err := ParseSize(maxSize)
	if err != nil {
		return err
	}

	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if limit <= 0 || info.Size() <= limit {
		return nil
	}

	return l.rotateLog()
}

func (l *Logger) rotateLog() error {
	_ = l.file.Close()

	ext := ""
	base := l.filename
	if i := strings.LastIndex(base, "."); i > 0 {
		base, ext = l.filename[:i], l.filename[i:]
	}
	rotated := fmt.Sprintf("%s.%s%s", base, time.Now().Format("20060102150405"), ext)
	if err := os.Rename(l.filename, rotated); err != nil {
		// 轮转失败时继续写原文件
		file, openErr := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if openErr != nil {
			l.file = nil
		} else {
			l.file = file
		}
		return fmt.Errorf("日志轮转失败: %w", err)
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		return err
	}
	l.file = file
	return nil
}

// String 实现LogLevel的String方法
// 返回值:
//
//	string: 日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseSize 解析 "a * b * c" 形式的大小表达式
func ParseSize(expr string) (int64, error) {
	if strings.TrimSpace(expr) == "" {
		return 0, nil
	}
	var result int64 = 1
	for _, part := range strings.Split(expr, "*") {
		num, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size expression %q: %w", expr, err)
		}
		result *= num
	}
	return result, nil
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }   // 记录调试信息
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }    // 记录普通信息
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) } // 记录警告信息
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }   // 记录错误信息
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }   // 记录致命错误

// Infof 格式化的普通信息
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Log(INFO, fmt.Sprintf(format, args...))
}
