package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/ports"
	"github.com/smartpdf/ui-api/internal/render"
)

const (
	maxGeneratedTitleLen    = 80
	maxGeneratedSubtitleLen = 120
)

// TemplateServiceOptions groups dependencies for TemplateService.
type TemplateServiceOptions struct {
	Templates ports.TemplateRepository
	Logger    *slog.Logger
}

// TemplateService builds document templates from chat input and
// persists them per user.
type TemplateService struct {
	templates ports.TemplateRepository
	logger    *slog.Logger
}

// NewTemplateService constructs a TemplateService.
func NewTemplateService(opts TemplateServiceOptions) *TemplateService {
	if opts.Templates == nil {
		panic("TemplateRepository is required")
	}
	return &TemplateService{templates: opts.Templates, logger: opts.Logger}
}

// Generate derives a document template from free-form chat input. The
// builder is deterministic: the same input always yields the same
// template. Nothing is persisted until Save.
func (s *TemplateService) Generate(ctx context.Context, req model.GenerateTemplateRequest) (*model.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	sentences := splitSentences(req.UserInput)

	title := render.DefaultTitle
	if len(sentences) > 0 {
		title = truncateRunes(sentences[0], maxGeneratedTitleLen)
	}
	subtitle := render.DefaultSubtitle
	if len(sentences) > 1 {
		subtitle = truncateRunes(sentences[1], maxGeneratedSubtitleLen)
	}

	keyPoints := deriveKeyPoints(sentences)

	design := render.DesignRecommendations{
		TitleFont:       fontDeclaration(render.DefaultTitleFont()),
		DescriptionFont: fontDeclaration(render.DefaultBodyFont()),
		BackgroundColor: "#FFF9F0",
	}
	content, err := json.Marshal(render.Content{
		Title:                 title,
		Subtitle:              subtitle,
		Description:           strings.TrimSpace(req.UserInput),
		DesignRecommendations: design,
	})
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	designJSON, err := json.Marshal(design)
	if err != nil {
		return nil, fmt.Errorf("encode design recommendations: %w", err)
	}

	return &model.Template{
		Title:                 title,
		Content:               string(content),
		DesignRecommendations: string(designJSON),
		KeyPoints:             keyPoints,
		ImageResults:          []string{},
	}, nil
}

// Save persists a template for the owner.
func (s *TemplateService) Save(ctx context.Context, userID int64, req model.SaveTemplateRequest) (*model.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	tpl, err := s.templates.Save(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("save template: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "template saved", "template_id", tpl.ID, "user_id", userID)
	}
	return tpl, nil
}

// Get returns one of the user's templates.
func (s *TemplateService) Get(ctx context.Context, id, userID int64) (*model.Template, error) {
	tpl, err := s.templates.GetByID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	return tpl, nil
}

// List returns the user's templates, newest first.
func (s *TemplateService) List(ctx context.Context, userID int64) ([]*model.Template, error) {
	out, err := s.templates.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return out, nil
}

// splitSentences breaks input on sentence boundaries and newlines,
// dropping empty fragments.
func splitSentences(input string) []string {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// deriveKeyPoints picks up to MaxKeyPoints sentences after the first.
// Single-sentence input falls back to its comma-separated clauses.
func deriveKeyPoints(sentences []string) []string {
	var candidates []string
	switch {
	case len(sentences) > 1:
		candidates = sentences[1:]
	case len(sentences) == 1:
		for _, p := range strings.Split(sentences[0], ",") {
			if p = strings.TrimSpace(p); p != "" {
				candidates = append(candidates, p)
			}
		}
	}

	if len(candidates) > model.MaxKeyPoints {
		candidates = candidates[:model.MaxKeyPoints]
	}
	out := make([]string, len(candidates))
	copy(out, candidates)
	return out
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func fontDeclaration(f render.FontSpec) string {
	return fmt.Sprintf("%s, %s, %s", f.Family, f.Size, f.Color)
}
