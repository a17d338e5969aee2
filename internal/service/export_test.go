package service

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/ports"
)

func testTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{
		getByIDFn: func(_ context.Context, id, userID int64) (*model.Template, error) {
			return &model.Template{
				ID:      id,
				UserID:  userID,
				Title:   "Quarterly report",
				Content: `{"title":"Quarterly report","subtitle":"Q3","description":"Numbers"}`,
			}, nil
		},
	}
}

func newTestExportService(conv *mockConverter, cfg ExportConfig) *ExportService {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return NewExportService(ExportServiceOptions{
		Deps:   ExportDeps{Converter: conv, Templates: testTemplateRepo()},
		Config: cfg,
	})
}

func waitForTerminal(t *testing.T, svc *ExportService, jobID string, userID int64) *model.ConversionJob {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, err := svc.Status(jobID, userID)
		require.NoError(t, err)
		if job.Status.Terminal() {
			return job
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
	return nil
}

func TestExportService_ThreePollsToFinished(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	statuses := []model.ConversionStatus{
		model.ConversionQueued,
		model.ConversionProcessing,
		model.ConversionFinished,
	}

	conv := &mockConverter{
		getJobFn: func(_ context.Context, jobID string) (*ports.JobStatus, error) {
			mu.Lock()
			defer mu.Unlock()
			st := &ports.JobStatus{ID: jobID, Status: statuses[calls]}
			if st.Status == model.ConversionFinished {
				st.ExportURL = "https://files.example.com/out.pdf"
			}
			calls++
			return st, nil
		},
	}
	svc := newTestExportService(conv, ExportConfig{})
	defer svc.Close()

	job, err := svc.Start(context.Background(), 1, 10, model.FormatPDF)
	require.NoError(t, err)

	final := waitForTerminal(t, svc, job.ID, 1)
	assert.Equal(t, model.ConversionFinished, final.Status)
	assert.Equal(t, "https://files.example.com/out.pdf", final.ResultURL)

	svc.Close()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls, "a job finishing on the third poll issues exactly three status requests")
}

func TestExportService_BoundedPollingTimesOut(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	conv := &mockConverter{
		getJobFn: func(_ context.Context, jobID string) (*ports.JobStatus, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			return &ports.JobStatus{ID: jobID, Status: model.ConversionProcessing}, nil
		},
	}
	svc := newTestExportService(conv, ExportConfig{MaxAttempts: 4})
	defer svc.Close()

	job, err := svc.Start(context.Background(), 1, 10, model.FormatDOCX)
	require.NoError(t, err)

	final := waitForTerminal(t, svc, job.ID, 1)
	assert.Equal(t, model.ConversionError, final.Status)
	assert.Equal(t, "conversion timed out", final.Error)

	svc.Close()
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 4, calls, "polling stops at the attempt bound")
}

func TestExportService_RemoteErrorIsTerminal(t *testing.T) {
	conv := &mockConverter{
		getJobFn: func(_ context.Context, jobID string) (*ports.JobStatus, error) {
			return &ports.JobStatus{ID: jobID, Status: model.ConversionError, Message: "bad input file"}, nil
		},
	}
	svc := newTestExportService(conv, ExportConfig{})
	defer svc.Close()

	job, err := svc.Start(context.Background(), 1, 10, model.FormatPDF)
	require.NoError(t, err)

	final := waitForTerminal(t, svc, job.ID, 1)
	assert.Equal(t, model.ConversionError, final.Status)
	assert.Equal(t, "bad input file", final.Error)
}

func TestExportService_CancelStopsPolling(t *testing.T) {
	conv := &mockConverter{
		getJobFn: func(_ context.Context, jobID string) (*ports.JobStatus, error) {
			return &ports.JobStatus{ID: jobID, Status: model.ConversionProcessing}, nil
		},
	}
	svc := newTestExportService(conv, ExportConfig{PollInterval: time.Millisecond, MaxAttempts: 100000})
	defer svc.Close()

	job, err := svc.Start(context.Background(), 1, 10, model.FormatPDF)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(job.ID, 1))

	final := waitForTerminal(t, svc, job.ID, 1)
	assert.Equal(t, model.ConversionError, final.Status)
	assert.Equal(t, "export canceled", final.Error)
}

func TestExportService_CloseCancelsInFlightJobs(t *testing.T) {
	conv := &mockConverter{
		getJobFn: func(_ context.Context, jobID string) (*ports.JobStatus, error) {
			return &ports.JobStatus{ID: jobID, Status: model.ConversionQueued}, nil
		},
	}
	svc := newTestExportService(conv, ExportConfig{PollInterval: time.Millisecond, MaxAttempts: 100000})

	job, err := svc.Start(context.Background(), 1, 10, model.FormatPDF)
	require.NoError(t, err)

	svc.Close()

	final, err := svc.Status(job.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ConversionError, final.Status)

	_, err = svc.Start(context.Background(), 1, 10, model.FormatPDF)
	assert.Error(t, err, "a closed service accepts no new jobs")
}

func TestExportService_StatusIsOwnerScoped(t *testing.T) {
	conv := &mockConverter{
		getJobFn: func(_ context.Context, jobID string) (*ports.JobStatus, error) {
			return &ports.JobStatus{ID: jobID, Status: model.ConversionQueued}, nil
		},
	}
	svc := newTestExportService(conv, ExportConfig{})
	defer svc.Close()

	job, err := svc.Start(context.Background(), 1, 10, model.FormatPDF)
	require.NoError(t, err)

	_, err = svc.Status(job.ID, 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "another user's job reads as not found")

	_, err = svc.Status("no-such-job", 1)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestExportService_UploadFailureSurfacesImmediately(t *testing.T) {
	conv := &mockConverter{
		uploadFn: func(context.Context, string, io.Reader) (string, error) {
			return "", apperrors.Upstream("upload rejected")
		},
	}
	svc := newTestExportService(conv, ExportConfig{})
	defer svc.Close()

	_, err := svc.Start(context.Background(), 1, 10, model.FormatPDF)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))

	_, err = svc.Status("anything", 1)
	assert.True(t, apperrors.IsNotFound(err), "no job is registered when upload fails")
}
