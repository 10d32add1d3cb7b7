package models

import "time"

type ImportStatus string

const (
	ImportCompleted        ImportStatus = "completed"
	ImportPartial          ImportStatus = "partial"
	ImportValidationFailed ImportStatus = "validation_failed"
)

// ImportRowError describes a rejected workbook row.
type ImportRowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

type ImportSummary struct {
	Status         ImportStatus     `json:"status"`
	Tests          int              `json:"tests"`
	Questions      int              `json:"questions"`
	Results        int              `json:"results"`
	ErrorCount     int              `json:"error_count"`
	Errors         []ImportRowError `json:"errors,omitempty"`
	ProcessingTime time.Duration    `json:"processing_time"`
}
