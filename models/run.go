package models

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// ScrapeRun is the operational record of one GenerateDump call
type ScrapeRun struct {
	ID            int64      `json:"id" db:"id"`
	SiteID        string     `json:"site_id" db:"site_id"`
	DumpID        string     `json:"dump_id" db:"dump_id"`
	StartedAt     time.Time  `json:"started_at" db:"started_at"`
	FinishedAt    *time.Time `json:"finished_at" db:"finished_at"`
	Status        RunStatus  `json:"status" db:"status"`
	ListingsFound int        `json:"listings_found" db:"listings_found"`
	EntriesParsed int        `json:"entries_parsed" db:"entries_parsed"`
	EntriesFailed int        `json:"entries_failed" db:"entries_failed"`
	ErrorMessage  string     `json:"error_message" db:"error_message"`
}

type SiteStats struct {
	SiteID            string     `json:"site_id" db:"site_id"`
	LastRunAt         *time.Time `json:"last_run_at" db:"last_run_at"`
	LastRunStatus     string     `json:"last_run_status" db:"last_run_status"`
	TotalDumps        int        `json:"total_dumps" db:"total_dumps"`
	TotalEntries      int        `json:"total_entries" db:"total_entries"`
	SuccessRate       float64    `json:"success_rate" db:"success_rate"`
	AvgRunDurationSec int        `json:"avg_run_duration_sec" db:"avg_run_duration_sec"`
}
