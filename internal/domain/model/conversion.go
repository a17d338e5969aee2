//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import "time"

// ConversionStatus is the lifecycle state of an export job.
type ConversionStatus string

const (
	ConversionQueued     ConversionStatus = "queued"
	ConversionProcessing ConversionStatus = "processing"
	ConversionFinished   ConversionStatus = "finished"
	ConversionError      ConversionStatus = "error"
)

// Terminal reports whether the status ends the job's lifecycle.
func (s ConversionStatus) Terminal() bool {
	return s == ConversionFinished || s == ConversionError
}

// ExportFormat selects the output of an export job.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatDOCX ExportFormat = "docx"
)

// ParseExportFormat validates a requested format, defaulting empty to PDF.
func ParseExportFormat(s string) (ExportFormat, bool) {
	switch ExportFormat(s) {
	case FormatPDF, FormatDOCX:
		return ExportFormat(s), true
	case "":
		return FormatPDF, true
	default:
		return "", false
	}
}

// ConversionJob is the ephemeral record of an export in flight. Jobs are
// held in memory only; a restart loses them.
type ConversionJob struct {
	ID         string           `json:"id"`
	UserID     int64            `json:"-"`
	TemplateID int64            `json:"template_id"`
	Format     ExportFormat     `json:"format"`
	Status     ConversionStatus `json:"status"`
	ResultURL  string           `json:"result_url,omitempty"`
	Error      string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
