// Package dates provides the calendar arithmetic the extraction pipeline is
// built on: splitting a time range into hourly windows and computing the
// default trailing extraction range.
package dates

import (
	"errors"
	"time"
)

// ErrInvalidRange reports unusable interval bounds: a missing timestamp or
// a start that is not strictly before the end.
var ErrInvalidRange = errors.New("start date must be before end date and both must be set")

// Interval is one hour-long window of the extraction range. End is
// inclusive: consecutive intervals tile the range with a one-second step
// between one window's end and the next window's start.
type Interval struct {
	Start time.Time
	End   time.Time
}

// HourIntervals splits [start, end] into ceil((end-start)/1h) hourly
// windows. Window i covers start+i·1h through start+(i+1)·1h−1s; the final
// window's end follows the same arithmetic rather than being clamped to
// end, matching the partition layout the models are trained against.
func HourIntervals(start, end time.Time) ([]Interval, error) {
	if start.IsZero() || end.IsZero() {
		return nil, ErrInvalidRange
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	const secondsPerHour = 3600
	totalSeconds := int64(end.Sub(start) / time.Second)
	totalHours := totalSeconds / secondsPerHour
	if totalSeconds%secondsPerHour > 0 {
		totalHours++
	}

	intervals := make([]Interval, 0, totalHours)
	windowStart := start
	for i := int64(0); i < totalHours; i++ {
		windowEnd := windowStart.Add(time.Hour - time.Second)
		intervals = append(intervals, Interval{Start: windowStart, End: windowEnd})
		windowStart = windowEnd.Add(time.Second)
	}
	return intervals, nil
}

// DateRangeForPastDays returns the inclusive range covering the given
// number of whole days ending yesterday: start is days ago at 00:00:00 and
// end is yesterday at 23:59:59, both relative to now.
func DateRangeForPastDays(days int, now time.Time) (time.Time, time.Time) {
	endDay := now.AddDate(0, 0, -1)
	end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, 0, now.Location())
	startDay := end.AddDate(0, 0, -(days - 1))
	start := time.Date(startDay.Year(), startDay.Month(), startDay.Day(), 0, 0, 0, 0, now.Location())
	return start, end
}
