package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/smartpdf/ui-api/internal/errors"

	"github.com/smartpdf/ui-api/internal/data/pgxutil"
	"github.com/smartpdf/ui-api/internal/domain/model"
)

// ErrTemplateNotFound is returned when a template is not found or
// belongs to a different user. It is an AppError so the apperrors
// predicates match it.
var ErrTemplateNotFound = apperrors.NotFound("template not found")

const (
	templateColumns = `id, user_id, title, content, design_recommendations, key_points, image_results, created_at, updated_at`

	templateGetQuery = `
		SELECT ` + templateColumns + ` FROM templates WHERE id = $1 AND user_id = $2`

	templateListQuery = `
		SELECT ` + templateColumns + `
		FROM templates
		WHERE user_id = $1
		ORDER BY created_at DESC`
)

// TemplateRepo provides database operations for saved templates.
type TemplateRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewTemplateRepo creates a new TemplateRepo with real time provider.
func NewTemplateRepo(db *sql.DB) *TemplateRepo {
	return &TemplateRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewTemplateRepoWithTimeProvider creates a new TemplateRepo with a custom time provider.
func NewTemplateRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *TemplateRepo {
	return &TemplateRepo{DB: db, timeProvider: tp}
}

// Save inserts a template document for the given user.
func (r *TemplateRepo) Save(ctx context.Context, userID int64, req model.SaveTemplateRequest) (*model.Template, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	keyPoints := req.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}
	imageResults := req.ImageResults
	if imageResults == nil {
		imageResults = []string{}
	}

	now := r.timeProvider.Now().UTC()
	var out model.Template
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO templates (user_id, title, content, design_recommendations, key_points, image_results, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
			RETURNING `+templateColumns,
			userID, req.Title, req.Content, req.DesignRecommendations, keyPoints, imageResults, now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Template])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to save template: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// GetByID retrieves a template scoped to its owner.
func (r *TemplateRepo) GetByID(ctx context.Context, id, userID int64) (*model.Template, error) {
	var out model.Template
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, templateGetQuery, id, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Template])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", apperrors.MapDBError(err))
	}
	return &out, nil
}

// ListForUser retrieves all templates for a user, newest first.
func (r *TemplateRepo) ListForUser(ctx context.Context, userID int64) ([]*model.Template, error) {
	var rowsOut []model.Template
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, templateListQuery, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Template])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", apperrors.MapDBError(err))
	}

	out := make([]*model.Template, len(rowsOut))
	for i := range rowsOut {
		out[i] = &rowsOut[i]
	}
	return out, nil
}
