// Package logger provides a small leveled console logger with colored
// output for the sync and scheduler loops.
package logger

import (
	"fmt"
	"time"

	"github.com/fatih/color"
)

var (
	timeColor    = color.New(color.FgHiBlack)
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	debugColor   = color.New(color.FgHiBlack)
)

func stamp() string {
	return timeColor.Sprintf("[%s]", time.Now().Format("15:04:05"))
}

// Info logs general information
func Info(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), infoColor.Sprintf(format, args...))
}

// Success logs a completed operation
func Success(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), successColor.Sprintf("✓ "+format, args...))
}

// Warning logs a recoverable problem
func Warning(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), warnColor.Sprintf("⚠ "+format, args...))
}

// Error logs a failure
func Error(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), errorColor.Sprintf("✗ "+format, args...))
}

// Debug logs development detail
func Debug(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", stamp(), debugColor.Sprintf("DEBUG: "+format, args...))
}
