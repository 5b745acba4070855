package model

import "time"

// BatchStatus tracks the lifecycle of a batch extraction run.
type BatchStatus string

const (
	BatchRunning  BatchStatus = "running"
	BatchComplete BatchStatus = "complete"
)

// Batch records one batch extraction over a directory or file list.
type Batch struct {
	ID          string      `json:"id"`
	Source      string      `json:"source"`
	Status      BatchStatus `json:"status"`
	NbFiles     int         `json:"nb_files"`
	NbEntries   int         `json:"nb_entries"`
	NbErrors    int         `json:"nb_errors"`
	StartedAt   time.Time   `json:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
