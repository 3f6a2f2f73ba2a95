package monitor

import "time"

// Status is a snapshot of dependency health.
type Status struct {
	PostgreSQL     bool      `json:"postgresql"`
	Redis          bool      `json:"redis"`
	Journal        bool      `json:"journal"`
	JournalEntries int       `json:"journalEntries"`
	LastCheck      time.Time `json:"lastCheck"`
}
