package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartpdf/ui-api/internal/data"
	"github.com/smartpdf/ui-api/internal/domain/model"
	apperrors "github.com/smartpdf/ui-api/internal/errors"
	"github.com/smartpdf/ui-api/internal/render"
)

func newTestTemplateService(repo *mockTemplateRepo) *TemplateService {
	return NewTemplateService(TemplateServiceOptions{Templates: repo})
}

func TestTemplateService_Generate(t *testing.T) {
	svc := newTestTemplateService(&mockTemplateRepo{})

	t.Run("deterministic", func(t *testing.T) {
		input := "Annual review. Highlights of the year. Revenue grew. Costs fell."
		a, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{UserInput: input})
		require.NoError(t, err)
		b, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{UserInput: input})
		require.NoError(t, err)
		assert.Equal(t, a, b, "same input always yields the same template")
	})

	t.Run("derives title, subtitle, and key points", func(t *testing.T) {
		tpl, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{
			UserInput: "Annual review. Highlights of the year. Revenue grew. Costs fell.",
		})
		require.NoError(t, err)

		assert.Equal(t, "Annual review", tpl.Title)
		assert.Equal(t, []string{"Highlights of the year", "Revenue grew", "Costs fell"}, tpl.KeyPoints)
		assert.Empty(t, tpl.ImageResults)

		content, ok := render.ParseContent(tpl.Content)
		require.True(t, ok, "generated content must parse")
		assert.Equal(t, "Annual review", content.Title)
		assert.Equal(t, "Highlights of the year", content.Subtitle)
		assert.NotEmpty(t, content.DesignRecommendations.TitleFont)
	})

	t.Run("caps key points at the layout capacity", func(t *testing.T) {
		tpl, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{
			UserInput: "Intro. One. Two. Three. Four. Five. Six. Seven.",
		})
		require.NoError(t, err)
		assert.Len(t, tpl.KeyPoints, model.MaxKeyPoints)
	})

	t.Run("single sentence falls back to clauses", func(t *testing.T) {
		tpl, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{
			UserInput: "A plan with goals, milestones, and owners",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"A plan with goals", "milestones", "and owners"}, tpl.KeyPoints)
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := svc.Generate(context.Background(), model.GenerateTemplateRequest{UserInput: "   "})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestTemplateService_SaveAndGet(t *testing.T) {
	repo := &mockTemplateRepo{
		saveFn: func(_ context.Context, userID int64, req model.SaveTemplateRequest) (*model.Template, error) {
			return &model.Template{ID: 1, UserID: userID, Title: req.Title}, nil
		},
		getByIDFn: func(_ context.Context, id, userID int64) (*model.Template, error) {
			if userID != 1 {
				return nil, data.ErrTemplateNotFound
			}
			return &model.Template{ID: id, UserID: userID}, nil
		},
	}
	svc := newTestTemplateService(repo)

	saved, err := svc.Save(context.Background(), 1, model.SaveTemplateRequest{Title: "T"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saved.UserID)

	_, err = svc.Get(context.Background(), 1, 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err), "templates are owner scoped")
}

func TestTemplateService_SaveRejectsBlankTitle(t *testing.T) {
	repo := &mockTemplateRepo{
		saveFn: func(context.Context, int64, model.SaveTemplateRequest) (*model.Template, error) {
			t.Fatal("repo must not be reached with an invalid request")
			return nil, nil
		},
	}
	svc := newTestTemplateService(repo)

	_, err := svc.Save(context.Background(), 1, model.SaveTemplateRequest{Title: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
