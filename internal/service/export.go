package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/ports"
	"github.com/smartpdf/ui-api/internal/render"
)

// ExportConfig bounds the polling loop.
type ExportConfig struct {
	PollInterval time.Duration
	MaxAttempts  int
}

// ExportDeps groups the collaborators of ExportService.
type ExportDeps struct {
	Converter ports.Converter
	Templates ports.TemplateRepository
	Logger    *slog.Logger
}

// ExportServiceOptions groups dependencies for ExportService.
type ExportServiceOptions struct {
	Deps   ExportDeps
	Config ExportConfig
}

// ExportService renders a template, hands it to the conversion service,
// and polls the job until it finishes, errors, or hits the attempt
// bound. Jobs live in memory only; a restart loses them.
type ExportService struct {
	converter    ports.Converter
	templates    ports.TemplateRepository
	logger       *slog.Logger
	pollInterval time.Duration
	maxAttempts  int

	baseCtx   context.Context
	cancelAll context.CancelFunc
	wg        sync.WaitGroup

	mu      sync.Mutex
	jobs    map[string]*model.ConversionJob
	cancels map[string]context.CancelFunc
	closed  bool
}

// NewExportService constructs an ExportService.
func NewExportService(opts ExportServiceOptions) *ExportService {
	if opts.Deps.Converter == nil {
		panic("Converter is required")
	}
	if opts.Deps.Templates == nil {
		panic("TemplateRepository is required")
	}

	interval := opts.Config.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	maxAttempts := opts.Config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 60
	}

	baseCtx, cancelAll := context.WithCancel(context.Background())
	return &ExportService{
		converter:    opts.Deps.Converter,
		templates:    opts.Deps.Templates,
		logger:       opts.Deps.Logger,
		pollInterval: interval,
		maxAttempts:  maxAttempts,
		baseCtx:      baseCtx,
		cancelAll:    cancelAll,
		jobs:         make(map[string]*model.ConversionJob),
		cancels:      make(map[string]context.CancelFunc),
	}
}

// Start renders the template, uploads it, creates the conversion job,
// and spawns the poller. It returns as soon as the remote job exists;
// progress is observed through Status.
func (s *ExportService) Start(ctx context.Context, userID, templateID int64, format model.ExportFormat) (*model.ConversionJob, error) {
	tpl, err := s.templates.GetByID(ctx, templateID, userID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	html, err := render.Render(render.DocumentFromTemplate(tpl))
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	importTaskID, err := s.converter.Upload(ctx, "document.html", bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("upload document: %w", err)
	}

	remoteID, err := s.converter.CreateJob(ctx, ports.CreateJobParams{
		ImportTaskID: importTaskID,
		InputFormat:  "html",
		OutputFormat: format,
	})
	if err != nil {
		return nil, fmt.Errorf("create conversion job: %w", err)
	}

	now := time.Now().UTC()
	job := &model.ConversionJob{
		ID:         uuid.NewString(),
		UserID:     userID,
		TemplateID: templateID,
		Format:     format,
		Status:     model.ConversionQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, apperrors.Internal("export service is shut down")
	}
	pollCtx, cancel := context.WithCancel(s.baseCtx)
	s.jobs[job.ID] = job
	s.cancels[job.ID] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go s.poll(pollCtx, job.ID, remoteID)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "export started",
			"job_id", job.ID, "template_id", templateID, "format", format)
	}
	return s.snapshot(job.ID, userID)
}

// Status returns a snapshot of the job. Another user's job reads as
// not found.
func (s *ExportService) Status(jobID string, userID int64) (*model.ConversionJob, error) {
	return s.snapshot(jobID, userID)
}

// Cancel stops the poller of a single job and marks it errored.
func (s *ExportService) Cancel(jobID string, userID int64) error {
	if _, err := s.snapshot(jobID, userID); err != nil {
		return err
	}
	s.mu.Lock()
	cancel, ok := s.cancels[jobID]
	s.mu.Unlock()
	if ok {
		cancel()
	}
	return nil
}

// Close cancels all in-flight jobs and waits for their pollers.
func (s *ExportService) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancelAll()
	s.wg.Wait()
}

// poll drives the remote job to a terminal state: one status request
// per tick, bounded by maxAttempts, abandoned on context cancellation.
func (s *ExportService) poll(ctx context.Context, jobID, remoteID string) {
	defer s.wg.Done()
	defer s.clearCancel(jobID)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for attempts := 0; attempts < s.maxAttempts; {
		select {
		case <-ctx.Done():
			s.finish(jobID, model.ConversionError, "", "export canceled")
			return
		case <-ticker.C:
			attempts++
			st, err := s.converter.GetJob(ctx, remoteID)
			if err != nil {
				if ctx.Err() != nil {
					s.finish(jobID, model.ConversionError, "", "export canceled")
					return
				}
				s.finish(jobID, model.ConversionError, "", err.Error())
				return
			}

			switch st.Status {
			case model.ConversionFinished:
				s.finish(jobID, model.ConversionFinished, st.ExportURL, "")
				return
			case model.ConversionError:
				msg := st.Message
				if msg == "" {
					msg = "conversion failed"
				}
				s.finish(jobID, model.ConversionError, "", msg)
				return
			default:
				s.update(jobID, st.Status)
			}
		}
	}

	s.finish(jobID, model.ConversionError, "", "conversion timed out")
}

func (s *ExportService) snapshot(jobID string, userID int64) (*model.ConversionJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.UserID != userID {
		return nil, apperrors.NotFound("export job not found")
	}
	out := *job
	return &out, nil
}

func (s *ExportService) update(jobID string, status model.ConversionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok && !job.Status.Terminal() {
		job.Status = status
		job.UpdatedAt = time.Now().UTC()
	}
}

func (s *ExportService) finish(jobID string, status model.ConversionStatus, resultURL, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok || job.Status.Terminal() {
		return
	}
	job.Status = status
	job.ResultURL = resultURL
	job.Error = errMsg
	job.UpdatedAt = time.Now().UTC()
}

func (s *ExportService) clearCancel(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cancel, ok := s.cancels[jobID]; ok {
		cancel()
		delete(s.cancels, jobID)
	}
}
