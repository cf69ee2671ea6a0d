package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jansamadhan/backend/internal/models"
	"github.com/jansamadhan/backend/internal/storage"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// MaxListLimit caps grievance listings.
const MaxListLimit = 100

const uncategorized = "Uncategorized"

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const userColumns = `id::text, email, full_name, role, hashed_password, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Role, &u.HashedPassword, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, role, hashed_password)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		strings.ToLower(u.Email), u.FullName, u.Role, u.HashedPassword)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return created, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
}

func (s *Store) GetUserByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id::text = $1`, id))
}

// UpsertGoogleUser returns the account for a verified Google email, creating a
// citizen account without a password on first sign-in.
func (s *Store) UpsertGoogleUser(ctx context.Context, email, fullName string) (models.User, error) {
	return scanUser(s.Pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, role, hashed_password)
		VALUES ($1, $2, $3, '')
		ON CONFLICT (email) DO UPDATE SET
			full_name = CASE WHEN users.full_name = '' THEN EXCLUDED.full_name ELSE users.full_name END
		RETURNING `+userColumns,
		strings.ToLower(email), fullName, models.RoleCitizen))
}

const grievanceColumns = `id::text, citizen_id::text, image_ref, raw_text, ai_summary, category, department, urgency, status, created_at`

func scanGrievance(row pgx.Row) (models.Grievance, error) {
	var (
		g      models.Grievance
		status string
	)
	if err := row.Scan(&g.ID, &g.CitizenID, &g.ImageID, &g.RawText, &g.AISummary, &g.Category, &g.Department, &g.Urgency, &status, &g.CreatedAt); err != nil {
		return models.Grievance{}, err
	}
	g.Status = models.GrievanceStatus(status)
	return g, nil
}

func (s *Store) InsertGrievance(ctx context.Context, g models.Grievance) (string, error) {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	if g.Status == "" {
		g.Status = models.StatusPending
	}
	var id string
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO grievances (citizen_id, image_ref, raw_text, ai_summary, category, department, urgency, status, created_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id::text
	`, g.CitizenID, g.ImageID, g.RawText, g.AISummary, g.Category, g.Department, g.Urgency, string(g.Status), g.CreatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert grievance: %w", err)
	}
	return id, nil
}

// GrievanceFilter narrows a listing. An empty CitizenID lists every citizen.
type GrievanceFilter struct {
	CitizenID string
	Limit     int
}

func (s *Store) ListGrievances(ctx context.Context, f GrievanceFilter) ([]models.Grievance, error) {
	limit := f.Limit
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}

	query := `SELECT ` + grievanceColumns + ` FROM grievances`
	var args []any
	if f.CitizenID != "" {
		args = append(args, f.CitizenID)
		query += fmt.Sprintf(" WHERE citizen_id::text = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Grievance, 0)
	for rows.Next() {
		g, err := scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) GetGrievance(ctx context.Context, id string) (models.Grievance, error) {
	g, err := scanGrievance(s.Pool.QueryRow(ctx, `SELECT `+grievanceColumns+` FROM grievances WHERE id::text = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Grievance{}, ErrNotFound
	}
	return g, err
}

// ResolveGrievance flips a grievance to Resolved. Resolving twice is a no-op.
func (s *Store) ResolveGrievance(ctx context.Context, id string) (models.Grievance, error) {
	g, err := scanGrievance(s.Pool.QueryRow(ctx, `
		UPDATE grievances SET status = $2
		WHERE id::text = $1
		RETURNING `+grievanceColumns, id, string(models.StatusResolved)))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Grievance{}, ErrNotFound
	}
	return g, err
}

func (s *Store) GrievanceStats(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT COALESCE(category, $1) AS name, COUNT(*)
		FROM grievances
		GROUP BY 1
		ORDER BY 2 DESC, 1 ASC
	`, uncategorized)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.CategoryCount, 0)
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Name, &c.Value); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// PutImage stores the image in the images table and returns its id. Store
// satisfies storage.BlobStore so small deployments need no object store.
func (s *Store) PutImage(ctx context.Context, data []byte, meta models.ImageMeta) (string, error) {
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now().UTC()
	}
	var id string
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO images (filename, content_type, citizen_id, size, data, created_at)
		VALUES ($1, $2, $3::uuid, $4, $5, $6)
		RETURNING id::text
	`, meta.Filename, meta.ContentType, meta.CitizenID, int64(len(data)), data, meta.CreatedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("insert image: %w", err)
	}
	return id, nil
}

func (s *Store) GetImage(ctx context.Context, ref string) ([]byte, models.ImageMeta, error) {
	var (
		data []byte
		meta models.ImageMeta
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT filename, content_type, citizen_id::text, size, data, created_at
		FROM images WHERE id::text = $1
	`, ref).Scan(&meta.Filename, &meta.ContentType, &meta.CitizenID, &meta.Size, &data, &meta.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ImageMeta{}, storage.ErrNotFound
		}
		return nil, models.ImageMeta{}, err
	}
	return data, meta, nil
}

var _ storage.BlobStore = (*Store)(nil)
