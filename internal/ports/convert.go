package ports

import (
	"context"
	"io"

	"github.com/smartpdf/ui-api/internal/domain/model"
)

// CreateJobParams groups parameters for Converter.CreateJob.
type CreateJobParams struct {
	ImportTaskID string
	InputFormat  string
	OutputFormat model.ExportFormat
}

// JobStatus is a snapshot of a conversion job.
type JobStatus struct {
	ID        string
	Status    model.ConversionStatus
	ExportURL string
	Message   string
}

// Converter drives the external document conversion service: upload a
// source document, create a conversion job, poll it for the export URL.
type Converter interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
	CreateJob(ctx context.Context, p CreateJobParams) (string, error)
	GetJob(ctx context.Context, jobID string) (*JobStatus, error)
}
