package utils

import "log"

// InitLogging initializes logging
func InitLogging(level string) {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	// Expand with structured logging (e.g., zap) for production
}
