package pipeline

import (
	"fmt"
	"time"
)

const windowTimeFormat = "2006-01-02 15:04:05"

// QueryExecutionError reports a failed query for one hour window. Fatal to
// the run: work is never retried or skipped.
type QueryExecutionError struct {
	Window time.Time
	Err    error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("query execution failed for window %s: %v", e.Window.Format(windowTimeFormat), e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// TransformError reports a failed transformation for one hour window.
type TransformError struct {
	Window time.Time
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("failed to transform dataset for window %s: %v", e.Window.Format(windowTimeFormat), e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// StorageWriteError reports a failed partition write for one hour window.
type StorageWriteError struct {
	Window time.Time
	Err    error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write partition for window %s: %v", e.Window.Format(windowTimeFormat), e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
