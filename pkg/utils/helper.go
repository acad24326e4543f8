package utils

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}

// ParseInt64 converts string to int64, zero on failure
func ParseInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

// GenerateBookingRef creates a human-facing booking reference.
// Format: TRV-YYYYMMDD-XXXXXXXX
func GenerateBookingRef() string {
	datePart := time.Now().Format("20060102")
	randomPart := uuid.NewString()[:8]

	return fmt.Sprintf("TRV-%s-%s", datePart, randomPart)
}
