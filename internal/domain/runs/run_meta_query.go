package runs

import (
	"fmt"
	"time"
)

// Query bounds and defaults
const (
	maxQueryLimit     = 100
	defaultQueryLimit = 20
)

var sortableColumns = map[string]bool{
	"date_time_created": true,
	"status":            true,
	"source_name":       true,
	"duration_ms":       true,
}

// RunMetaQuery holds filter, pagination and sorting parameters for listing runs
type RunMetaQuery struct {
	Status          string
	EntryPoint      string
	DateTimeCreated time.Time
	Limit           int
	Offset          int
	SortBy          string
	SortOrder       string
}

// NewRunMetaQuery returns a RunMetaQuery with default pagination and sorting
func NewRunMetaQuery() *RunMetaQuery {
	return &RunMetaQuery{
		Limit:     defaultQueryLimit,
		Offset:    0,
		SortBy:    "date_time_created",
		SortOrder: "desc",
	}
}

// Validate checks bounds and whitelists on the query parameters
func (q *RunMetaQuery) Validate() error {
	if q.Limit < 1 || q.Limit > maxQueryLimit {
		return fmt.Errorf("limit must be between 1 and %d, got %d", maxQueryLimit, q.Limit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("offset must not be negative, got %d", q.Offset)
	}
	if q.Status != "" {
		switch q.Status {
		case StatusPending, StatusRunning, StatusSucceeded, StatusFailed, StatusTimedOut:
		default:
			return fmt.Errorf("unknown status filter: %s", q.Status)
		}
	}
	if q.SortBy != "" && !sortableColumns[q.SortBy] {
		return fmt.Errorf("unsupported sort column: %s", q.SortBy)
	}
	if q.SortOrder != "" && q.SortOrder != "asc" && q.SortOrder != "desc" {
		return fmt.Errorf("sort order must be asc or desc, got %s", q.SortOrder)
	}
	return nil
}
