package main

import (
	"fmt"
	"time"
)

const datetimeFormat = "2006-01-02 15:04:05"

// validateDatetimeArg parses a user-supplied datetime flag value.
func validateDatetimeArg(value string) (time.Time, error) {
	t, err := time.Parse(datetimeFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("given datetime (%s) is not valid, expected format: '%s'", value, "YYYY-MM-DD HH:MM:SS")
	}
	return t, nil
}

// validatePercentageArg checks that the value is a percentage between 0 and 1.
func validatePercentageArg(value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("percentage must be between 0 and 1, got %v", value)
	}
	return nil
}

// validatePositiveIntegerArg checks that the value is a positive integer.
func validatePositiveIntegerArg(value int) error {
	if value <= 0 {
		return fmt.Errorf("must be a positive integer, got %d", value)
	}
	return nil
}

// validateStorageType checks the storage backend selector.
func validateStorageType(value string) error {
	if value != "local" && value != "remote" {
		return fmt.Errorf("storage_type must be 'local' or 'remote', got %q", value)
	}
	return nil
}
