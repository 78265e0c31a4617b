package logger

import "fmt"

// Success logs an info line flagged as a completed step.
func Success(args ...interface{}) {
	defaultLogger.Info("✅ " + fmt.Sprint(args...))
}

// Successf logs a formatted success line.
func Successf(format string, args ...interface{}) {
	Success(fmt.Sprintf(format, args...))
}

// Progress logs an info line flagged as an in-flight step.
func Progress(args ...interface{}) {
	defaultLogger.Info("🔄 " + fmt.Sprint(args...))
}

// Progressf logs a formatted progress line.
func Progressf(format string, args ...interface{}) {
	Progress(fmt.Sprintf(format, args...))
}
