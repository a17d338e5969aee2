package cloudconvert

// Package cloudconvert is a minimal client for the CloudConvert v2 API:
// upload a source document, create an import/convert/export job, and
// poll the job until its export URL is available. The bearer credential
// stays server-side; it is injected into every request by the oauth2
// transport.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/oauth2"

	apperrors "github.com/smartpdf/ui-api/internal/errors"

	"github.com/smartpdf/ui-api/internal/domain/model"
	"github.com/smartpdf/ui-api/internal/ports"
)

// exportURLExpr locates the export task's first result file in a job payload.
const exportURLExpr = `tasks[?operation=='export/url'] | [0].result.files[0].url`

// ClientOptions groups parameters for NewClient.
type ClientOptions struct {
	BaseURL        string
	APIKey         string
	RequestTimeout time.Duration
	// HTTPClient overrides the oauth2-wrapped default; used in tests.
	HTTPClient *http.Client
}

// Client talks to the conversion service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a Client whose transport attaches the bearer credential.
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		if opts.APIKey == "" {
			return nil, errors.New("API key is required")
		}
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.APIKey})
		httpClient = oauth2.NewClient(context.Background(), src)
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient.Timeout = timeout

	return &Client{baseURL: opts.BaseURL, http: httpClient}, nil
}

// uploadTask mirrors the import/upload task response.
type uploadTask struct {
	ID     string `json:"id"`
	Result struct {
		Form struct {
			URL        string            `json:"url"`
			Parameters map[string]string `json:"parameters"`
		} `json:"form"`
	} `json:"result"`
}

// Upload creates an import/upload task and posts the document to its
// form endpoint. Returns the import task ID for use in CreateJob.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	var task uploadTask
	if err := c.do(ctx, http.MethodPost, "/import/upload", nil, &task); err != nil {
		return "", fmt.Errorf("create upload task: %w", err)
	}
	if task.Result.Form.URL == "" {
		return "", apperrors.Upstream("conversion service returned no upload form")
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range task.Result.Form.Parameters {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("write form field: %w", err)
		}
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, task.Result.Form.URL, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.Upstreamf("upload rejected with status %d", resp.StatusCode)
	}

	return task.ID, nil
}

// CreateJob builds the import -> convert -> export task graph and
// returns the job ID to poll.
func (c *Client) CreateJob(ctx context.Context, p ports.CreateJobParams) (string, error) {
	if p.ImportTaskID == "" {
		return "", errors.New("import task ID is required")
	}

	payload := map[string]any{
		"tasks": map[string]any{
			"convert-document": map[string]any{
				"operation":     "convert",
				"input":         p.ImportTaskID,
				"input_format":  p.InputFormat,
				"output_format": string(p.OutputFormat),
			},
			"export-document": map[string]any{
				"operation": "export/url",
				"input":     "convert-document",
			},
		},
	}

	var job struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/jobs", payload, &job); err != nil {
		return "", fmt.Errorf("create job: %w", err)
	}
	if job.ID == "" {
		return "", apperrors.Upstream("conversion service returned no job ID")
	}
	return job.ID, nil
}

// GetJob fetches the job and, when finished, extracts the export URL.
func (c *Client) GetJob(ctx context.Context, jobID string) (*ports.JobStatus, error) {
	if jobID == "" {
		return nil, errors.New("job ID is required")
	}

	var raw map[string]any
	if err := c.do(ctx, http.MethodGet, "/jobs/"+jobID, nil, &raw); err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}

	status := &ports.JobStatus{ID: jobID, Status: model.ConversionQueued}
	statusStr, _ := jmespath.Search("status", raw)
	if s, ok := statusStr.(string); ok {
		switch s {
		case "waiting", "queued":
			status.Status = model.ConversionQueued
		case "processing":
			status.Status = model.ConversionProcessing
		case "finished":
			status.Status = model.ConversionFinished
		case "error", "failed":
			status.Status = model.ConversionError
		}
	}

	if status.Status == model.ConversionError {
		if msg, _ := jmespath.Search("tasks[?status=='error'] | [0].message", raw); msg != nil {
			if s, ok := msg.(string); ok {
				status.Message = s
			}
		}
		return status, nil
	}

	if status.Status == model.ConversionFinished {
		url, err := jmespath.Search(exportURLExpr, raw)
		if err != nil {
			return nil, fmt.Errorf("extract export URL: %w", err)
		}
		s, ok := url.(string)
		if !ok || s == "" {
			return nil, apperrors.Upstream("finished job has no export URL")
		}
		status.ExportURL = s
	}

	return status, nil
}

// do issues a JSON request against the API and decodes the "data" envelope.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return upstreamError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// upstreamError maps a non-2xx response to an AppError carrying the
// service's message when one is present.
func upstreamError(status int, raw []byte) error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Message != "" {
		return apperrors.Upstreamf("conversion service: %s (status %d)", payload.Message, status)
	}
	return apperrors.Upstreamf("conversion service returned status %d", status)
}
