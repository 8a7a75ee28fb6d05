// utils/safelog.go
// ============================================================================
// SAFE LOGGING - Masks personal data in production logs
// ============================================================================
// Announcement titles, counterparty names and user emails are business data;
// in production they are masked before reaching the log sink.
// ============================================================================

package utils

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
)

var (
	// IsProduction switches masking on.
	IsProduction = os.Getenv("GIN_MODE") == "release" ||
		os.Getenv("ENVIRONMENT") == "production" ||
		os.Getenv("ENV") == "production"

	// LogLevel filters logs (DEBUG, INFO, WARN, ERROR).
	LogLevel = getLogLevel()
)

const (
	LogLevelDebug = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func getLogLevel() int {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

var (
	emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

	// Bid notice numbers look like 20240812345-00.
	noticeNoRegex = regexp.MustCompile(`\b\d{11}(-\d{2})?\b`)

	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[\s.-]?)?0\d{1,2}[\s.-]?\d{3,4}[\s.-]?\d{4}`)

	uuidRegex = regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`)
)

// MaskString masks sensitive data in a string.
func MaskString(input string) string {
	if !IsProduction {
		return input
	}

	result := input
	result = emailRegex.ReplaceAllString(result, "***@***.***")
	result = noticeNoRegex.ReplaceAllString(result, "***********")
	result = phoneRegex.ReplaceAllString(result, "***-****-****")
	result = uuidRegex.ReplaceAllStringFunc(result, func(id string) string {
		return id[:8] + "..."
	})
	return result
}

// MaskEmail masks an email address.
func MaskEmail(email string) string {
	if !IsProduction {
		return email
	}
	return "***@***.***"
}

// SafeLog logs a message with sensitive data masked.
func SafeLog(format string, args ...interface{}) {
	log.Print(MaskString(fmt.Sprintf(format, args...)))
}

// SafeDebug logs a debug message (only when LOG_LEVEL=DEBUG).
func SafeDebug(format string, args ...interface{}) {
	if LogLevel > LogLevelDebug {
		return
	}
	log.Printf("[DEBUG] %s", MaskString(fmt.Sprintf(format, args...)))
}

// SafeWarn logs a warning.
func SafeWarn(format string, args ...interface{}) {
	if LogLevel > LogLevelWarn {
		return
	}
	log.Printf("[WARN] %s", MaskString(fmt.Sprintf(format, args...)))
}

// SafeError logs an error.
func SafeError(format string, args ...interface{}) {
	log.Printf("[ERROR] %s", MaskString(fmt.Sprintf(format, args...)))
}

// LogAuthAction logs a login/role lookup without exposing the address.
func LogAuthAction(action string, email string, success bool) {
	outcome := "OK"
	if !success {
		outcome = "FAILED"
	}
	log.Printf("[Auth] %s - %s: %s", action, MaskEmail(email), outcome)
}

// LogWorkflowAction logs a mutation attempt against the external store.
func LogWorkflowAction(kind string, actor string, rowKey string, success bool) {
	outcome := "OK"
	if !success {
		outcome = "FAILED"
	}
	log.Printf("[Workflow] %s by %s on %s: %s", kind, MaskEmail(actor), MaskString(rowKey), outcome)
}
