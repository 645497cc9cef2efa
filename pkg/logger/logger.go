package logger

import (
	"fmt"
	"log"
	"os"
)

// Logger is a minimal leveled logger. Debug output is emitted only when the
// configured level is "debug".
type Logger struct {
	level string
}

func New(level string) *Logger {
	return &Logger{level: level}
}

func (l *Logger) Info(msg string) {
	log.Printf("[INFO] %s", msg)
}

func (l *Logger) Infof(format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string) {
	log.Printf("[ERROR] %s", msg)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(msg string) {
	if l.level == "debug" {
		log.Printf("[DEBUG] %s", msg)
	}
}

func (l *Logger) Warn(msg string) {
	log.Printf("[WARN] %s", msg)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Fatal(msg string) {
	log.Printf("[FATAL] %s", msg)
	os.Exit(1)
}
