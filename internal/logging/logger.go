package logging

import (
	"log"
	"os"
)

var (
	debugEnabled = os.Getenv("DEBUG") == "true"
)

// Info logs an informational message (always shown)
func Info(subsystem, format string, args ...any) {
	log.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
}

// Debug logs a debug message (only shown if DEBUG=true)
func Debug(subsystem, format string, args ...any) {
	if debugEnabled {
		log.Printf("[%s] "+format, append([]any{subsystem}, args...)...)
	}
}

// Tick logs the one-line summary every heartbeat/interact call ends
// with: the growth day, mood, and which soul document is currently
// active, plus whatever call-specific detail the caller appends.
func Tick(subsystem string, growthDay, mood int, activeSoulFile, detail string) {
	if detail == "" {
		Info(subsystem, "growth_day=%d mood=%d active_soul_file=%s", growthDay, mood, activeSoulFile)
		return
	}
	Info(subsystem, "growth_day=%d mood=%d active_soul_file=%s %s", growthDay, mood, activeSoulFile, detail)
}
