package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/smartpdf/ui-api/internal/errors"

	"github.com/smartpdf/ui-api/internal/data/pgxutil"
	"github.com/smartpdf/ui-api/internal/domain/auth"
	"github.com/smartpdf/ui-api/internal/domain/model"
)

// Sentinels are AppErrors so callers can branch with errors.Is or the
// apperrors predicates interchangeably.
var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = apperrors.NotFound("user not found")
	// ErrEmailExists is returned when registering with an email that is already taken.
	ErrEmailExists = apperrors.Conflict("email already registered")
)

const (
	userColumns = `id, name, email, phone, profession, role, active, password_hash, joined_at, updated_at`

	userGetByIDQuery = `
		SELECT ` + userColumns + ` FROM users WHERE id = $1`

	userGetByEmailQuery = `
		SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	userListQuery = `
		SELECT id, name, email, phone, profession, role, joined_at
		FROM users
		WHERE active = true
		ORDER BY joined_at DESC
		LIMIT $1 OFFSET $2`
)

// UserRepo provides database operations for user accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewUserRepoWithTimeProvider creates a new UserRepo with a custom time provider (useful for tests).
func NewUserRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *UserRepo {
	return &UserRepo{DB: db, timeProvider: tp}
}

// Create inserts a new, inactive user account.
func (r *UserRepo) Create(ctx context.Context, p model.CreateUserParams) (*model.User, error) {
	if p.Email == "" || p.PasswordHash == "" {
		return nil, apperrors.Validation("email and password hash are required")
	}
	role := p.Role
	if role != auth.RoleAdmin {
		role = auth.RoleUser
	}

	now := r.timeProvider.Now().UTC()
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (name, email, phone, profession, role, active, password_hash, joined_at, updated_at)
			VALUES ('', $1, $2, '', $3, false, $4, $5, $5)
			RETURNING `+userColumns,
			strings.ToLower(strings.TrimSpace(p.Email)),
			strings.TrimSpace(p.Phone),
			role,
			p.PasswordHash,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		return nil, r.mapWriteErr(err)
	}
	return &out, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getByQuery(ctx, userGetByIDQuery, "failed to get user by ID", id)
}

// GetByEmail retrieves a user by email (case-insensitive).
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getByQuery(ctx, userGetByEmailQuery, "failed to get user by email", strings.TrimSpace(email))
}

func (r *UserRepo) getByQuery(ctx context.Context, query, failMsg string, arg any) (*model.User, error) {
	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, arg)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", failMsg, apperrors.MapDBError(err))
	}
	return &out, nil
}

// List retrieves active users for the admin console with pagination.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*model.AdminUserView, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rowsOut []model.AdminUserView
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, userListQuery, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.AdminUserView])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", apperrors.MapDBError(err))
	}

	out := make([]*model.AdminUserView, len(rowsOut))
	for i := range rowsOut {
		out[i] = &rowsOut[i]
	}
	return out, nil
}

// Activate marks an account active after OTP verification.
func (r *UserRepo) Activate(ctx context.Context, id int64) error {
	return r.exec(ctx, `UPDATE users SET active = true, updated_at = $2 WHERE id = $1`,
		id, r.timeProvider.Now().UTC())
}

// UpdateProfile applies the non-nil fields of the request.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, req model.UpdateProfileRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setClause, args := r.buildProfileUpdateClause(req)
	args = append(args, id)

	var out model.User
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
			setClause, len(args), userColumns)
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, r.mapWriteErr(err)
	}
	return &out, nil
}

// buildProfileUpdateClause builds the SQL SET clause and args for a profile update.
func (r *UserRepo) buildProfileUpdateClause(req model.UpdateProfileRequest) (string, []any) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Phone != nil {
		setParts = append(setParts, fmt.Sprintf("phone = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Phone))
	}
	if req.Profession != nil {
		setParts = append(setParts, fmt.Sprintf("profession = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Profession))
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// UpdatePassword replaces the stored password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	if passwordHash == "" {
		return apperrors.Validation("password hash is required")
	}
	return r.exec(ctx, `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, passwordHash, r.timeProvider.Now().UTC())
}

// Delete removes a user. Notifications and templates cascade.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM users WHERE id = $1`, id)
}

// DeleteStalePending removes accounts that never activated before the cutoff.
// Returns the number of purged accounts.
func (r *UserRepo) DeleteStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx,
			`DELETE FROM users WHERE active = false AND joined_at < $1`, cutoff.UTC())
		if err != nil {
			return err
		}
		purged = tag.RowsAffected()
		return nil
	}); err != nil {
		return 0, fmt.Errorf("failed to purge pending users: %w", apperrors.MapDBError(err))
	}
	return purged, nil
}

// exec runs a statement that must affect exactly one user row.
func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	var affected int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		tag, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	}); err != nil {
		return r.mapWriteErr(err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// mapWriteErr maps write-path database errors to domain sentinels.
func (r *UserRepo) mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrEmailExists
	}
	return apperrors.MapDBError(err)
}
