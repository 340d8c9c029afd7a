package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

const uniqueViolation = "23505"

type Postgres struct {
	Db *sql.DB
}

// New wraps an open connection without touching the schema.
func New(db *sql.DB) *Postgres {
	return &Postgres{Db: db}
}

func NewPostgres(cfg *config.Config) (*Postgres, error) {
	db, err := sql.Open("postgres", cfg.Database.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	slog.Info("Connected to Postgres database")

	pg := New(db)
	if err := pg.CreateTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) Close() error {
	return p.Db.Close()
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.Db.PingContext(ctx)
}

func (p *Postgres) CreateTables(ctx context.Context) error {
	var queries []string

	// Parent tables belong to the CMS; these minimal definitions only guarantee
	// the existence checks have something to query on a fresh database.
	for _, parent := range media.ParentTypes {
		queries = append(queries, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);`, pq.QuoteIdentifier(parent.Table)))
	}

	queries = append(queries,
		`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`
		CREATE TABLE IF NOT EXISTS media_assets (
			id BIGSERIAL PRIMARY KEY,
			parent_type VARCHAR(50) NOT NULL,
			parent_id BIGINT NOT NULL,
			kind VARCHAR(10) NOT NULL CHECK (kind IN ('image', 'video')),
			file_path VARCHAR(512) NOT NULL,
			original_filename VARCHAR(512) NOT NULL,
			content_type VARCHAR(255) NOT NULL DEFAULT '',
			size BIGINT NOT NULL DEFAULT 0,
			title VARCHAR(255) NOT NULL DEFAULT '',
			alt_text VARCHAR(255) NOT NULL DEFAULT '',
			sort_order INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		`,
		`CREATE INDEX IF NOT EXISTS idx_media_assets_parent
			ON media_assets (parent_type, parent_id, kind, is_active, sort_order, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_media_assets_file_path ON media_assets (file_path);`,
	)

	for _, q := range queries {
		if _, err := p.Db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) ParentExists(ctx context.Context, parent media.ParentType, parentID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)`, pq.QuoteIdentifier(parent.Table))

	var exists bool
	if err := p.Db.QueryRowContext(ctx, query, parentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s exists: %w", parent.Name, err)
	}
	return exists, nil
}

func (p *Postgres) CreateMediaAssets(ctx context.Context, assets []media.MediaAsset) ([]media.MediaAsset, error) {
	tx, err := p.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO media_assets (parent_type, parent_id, kind, file_path, original_filename,
		content_type, size, title, alt_text, sort_order, is_active, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id
	`

	created := make([]media.MediaAsset, 0, len(assets))
	now := time.Now().UTC()
	for _, a := range assets {
		a.CreatedAt = now
		err := tx.QueryRowContext(ctx, query,
			a.ParentType, a.ParentID, a.Kind, a.FilePath, a.OriginalFilename,
			a.ContentType, a.Size, a.Title, a.AltText, a.SortOrder, a.IsActive, a.CreatedAt,
		).Scan(&a.ID)
		if err != nil {
			return nil, fmt.Errorf("insert media asset: %w", err)
		}
		created = append(created, a)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit media assets: %w", err)
	}

	return created, nil
}

const assetColumns = `id, parent_type, parent_id, kind, file_path, original_filename, content_type,
	size, title, alt_text, sort_order, is_active, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(row scanner) (media.MediaAsset, error) {
	var a media.MediaAsset
	err := row.Scan(&a.ID, &a.ParentType, &a.ParentID, &a.Kind, &a.FilePath, &a.OriginalFilename,
		&a.ContentType, &a.Size, &a.Title, &a.AltText, &a.SortOrder, &a.IsActive, &a.CreatedAt)
	return a, err
}

func (p *Postgres) ListMediaAssets(ctx context.Context, parentType string, parentID int64, kind media.Kind) ([]media.MediaAsset, error) {
	query := `SELECT ` + assetColumns + `
	FROM media_assets
	WHERE parent_type = $1 AND parent_id = $2 AND kind = $3 AND is_active = TRUE
	ORDER BY sort_order ASC, created_at ASC, id ASC`

	rows, err := p.Db.QueryContext(ctx, query, parentType, parentID, kind)
	if err != nil {
		return nil, fmt.Errorf("list media assets: %w", err)
	}
	defer rows.Close()

	assets := []media.MediaAsset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media asset: %w", err)
		}
		assets = append(assets, a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return assets, nil
}

func (p *Postgres) GetMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) (media.MediaAsset, error) {
	query := `SELECT ` + assetColumns + `
	FROM media_assets
	WHERE id = $1 AND parent_type = $2 AND parent_id = $3 AND kind = $4`

	a, err := scanAsset(p.Db.QueryRowContext(ctx, query, id, parentType, parentID, kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, storage.ErrNotFound
		}
		return a, fmt.Errorf("get media asset: %w", err)
	}
	return a, nil
}

func (p *Postgres) DeleteMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) error {
	result, err := p.Db.ExecContext(ctx,
		`DELETE FROM media_assets WHERE id = $1 AND parent_type = $2 AND parent_id = $3 AND kind = $4`,
		id, parentType, parentID, kind)
	if err != nil {
		return fmt.Errorf("delete media asset: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *Postgres) UpdateMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64, upd media.AssetUpdate) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.AltText != nil {
		add("alt_text", *upd.AltText)
	}
	if upd.SortOrder != nil {
		add("sort_order", *upd.SortOrder)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}

	n := len(args)
	query := fmt.Sprintf(`UPDATE media_assets SET %s WHERE id = $%d AND parent_type = $%d AND parent_id = $%d AND kind = $%d`,
		strings.Join(sets, ", "), n+1, n+2, n+3, n+4)
	args = append(args, id, parentType, parentID, kind)

	result, err := p.Db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update media asset: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *Postgres) MediaSummary(ctx context.Context, parentType string, parentID int64) (media.Summary, error) {
	summary := media.Summary{ParentType: parentType, ParentID: parentID}

	rows, err := p.Db.QueryContext(ctx, `
	SELECT kind, COUNT(*), COALESCE(SUM(size), 0)
	FROM media_assets
	WHERE parent_type = $1 AND parent_id = $2 AND is_active = TRUE
	GROUP BY kind`, parentType, parentID)
	if err != nil {
		return summary, fmt.Errorf("summarize media: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			kind media.Kind
			ks   media.KindSummary
		)
		if err := rows.Scan(&kind, &ks.Count, &ks.TotalBytes); err != nil {
			return summary, fmt.Errorf("scan media summary: %w", err)
		}
		switch kind {
		case media.KindImage:
			summary.Images = ks
		case media.KindVideo:
			summary.Videos = ks
		}
	}

	return summary, rows.Err()
}

func (p *Postgres) MediaFileReferenced(ctx context.Context, filePath string) (bool, error) {
	var exists bool
	err := p.Db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM media_assets WHERE file_path = $1)`, filePath,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check file reference: %w", err)
	}
	return exists, nil
}

func (p *Postgres) CreateUser(ctx context.Context, email, password string) (string, error) {
	var userID int
	query := `
	INSERT INTO users (email, password)
	VALUES ($1, $2)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, email, password).Scan(&userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", storage.ErrDuplicate
		}
		return "", err
	}

	return fmt.Sprintf("%d", userID), nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var userID int
	var hashedPassword string
	query := `
	SELECT id, password FROM users WHERE email = $1
	`

	err := p.Db.QueryRowContext(ctx, query, email).Scan(&userID, &hashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", storage.ErrNotFound
		}
		return "", "", err
	}

	return fmt.Sprintf("%d", userID), hashedPassword, nil
}
