package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

const duplicateEntry = 1062

type MySQL struct {
	Db *sql.DB
}

func New(db *sql.DB) *MySQL {
	return &MySQL{Db: db}
}

// DSN builds a go-sql-driver connection string that parses DATETIME into time.Time.
func DSN(c config.MySQL) string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC
	return mc.FormatDSN()
}

func NewMySQL(cfg *config.Config) (*MySQL, error) {
	db, err := sql.Open("mysql", DSN(cfg.Database.MySQL))
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	slog.Info("Connected to MySQL database")

	m := New(db)
	if err := m.CreateTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return m, nil
}

func (m *MySQL) Close() error {
	return m.Db.Close()
}

func (m *MySQL) Ping(ctx context.Context) error {
	return m.Db.PingContext(ctx)
}

func quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (m *MySQL) CreateTables(ctx context.Context) error {
	var queries []string

	for _, parent := range media.ParentTypes {
		queries = append(queries, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, quote(parent.Table)))
	}

	queries = append(queries,
		`
		CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`
		CREATE TABLE IF NOT EXISTS media_assets (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			parent_type VARCHAR(50) NOT NULL,
			parent_id BIGINT NOT NULL,
			kind ENUM('image', 'video') NOT NULL,
			file_path VARCHAR(512) NOT NULL,
			original_filename VARCHAR(512) NOT NULL,
			content_type VARCHAR(255) NOT NULL DEFAULT '',
			size BIGINT NOT NULL DEFAULT 0,
			title VARCHAR(255) NOT NULL DEFAULT '',
			alt_text VARCHAR(255) NOT NULL DEFAULT '',
			sort_order INT NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			INDEX idx_media_assets_parent (parent_type, parent_id, kind, is_active, sort_order, created_at),
			INDEX idx_media_assets_file_path (file_path)
		)`,
	)

	for _, q := range queries {
		if _, err := m.Db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	return nil
}

func (m *MySQL) ParentExists(ctx context.Context, parent media.ParentType, parentID int64) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)", quote(parent.Table))

	var exists bool
	if err := m.Db.QueryRowContext(ctx, query, parentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s exists: %w", parent.Name, err)
	}
	return exists, nil
}

func (m *MySQL) CreateMediaAssets(ctx context.Context, assets []media.MediaAsset) ([]media.MediaAsset, error) {
	tx, err := m.Db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO media_assets (parent_type, parent_id, kind, file_path, original_filename,
		content_type, size, title, alt_text, sort_order, is_active, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	created := make([]media.MediaAsset, 0, len(assets))
	now := time.Now().UTC()
	for _, a := range assets {
		a.CreatedAt = now
		result, err := tx.ExecContext(ctx, query,
			a.ParentType, a.ParentID, a.Kind, a.FilePath, a.OriginalFilename,
			a.ContentType, a.Size, a.Title, a.AltText, a.SortOrder, a.IsActive, a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("insert media asset: %w", err)
		}

		a.ID, err = result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("get last insert id: %w", err)
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

func scanAsset(row interface{ Scan(...any) error }) (media.MediaAsset, error) {
	var a media.MediaAsset
	err := row.Scan(&a.ID, &a.ParentType, &a.ParentID, &a.Kind, &a.FilePath, &a.OriginalFilename,
		&a.ContentType, &a.Size, &a.Title, &a.AltText, &a.SortOrder, &a.IsActive, &a.CreatedAt)
	return a, err
}

func (m *MySQL) ListMediaAssets(ctx context.Context, parentType string, parentID int64, kind media.Kind) ([]media.MediaAsset, error) {
	rows, err := m.Db.QueryContext(ctx, `SELECT `+assetColumns+`
	FROM media_assets
	WHERE parent_type = ? AND parent_id = ? AND kind = ? AND is_active = TRUE
	ORDER BY sort_order ASC, created_at ASC, id ASC`, parentType, parentID, kind)
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
	return assets, rows.Err()
}

func (m *MySQL) GetMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) (media.MediaAsset, error) {
	a, err := scanAsset(m.Db.QueryRowContext(ctx, `SELECT `+assetColumns+`
	FROM media_assets
	WHERE id = ? AND parent_type = ? AND parent_id = ? AND kind = ?`, id, parentType, parentID, kind))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, storage.ErrNotFound
		}
		return a, fmt.Errorf("get media asset: %w", err)
	}
	return a, nil
}

func (m *MySQL) DeleteMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64) error {
	result, err := m.Db.ExecContext(ctx,
		`DELETE FROM media_assets WHERE id = ? AND parent_type = ? AND parent_id = ? AND kind = ?`,
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

func (m *MySQL) UpdateMediaAsset(ctx context.Context, parentType string, parentID int64, kind media.Kind, id int64, upd media.AssetUpdate) error {
	var (
		sets []string
		args []any
	)
	if upd.Title != nil {
		sets, args = append(sets, "title = ?"), append(args, *upd.Title)
	}
	if upd.AltText != nil {
		sets, args = append(sets, "alt_text = ?"), append(args, *upd.AltText)
	}
	if upd.SortOrder != nil {
		sets, args = append(sets, "sort_order = ?"), append(args, *upd.SortOrder)
	}
	if upd.IsActive != nil {
		sets, args = append(sets, "is_active = ?"), append(args, *upd.IsActive)
	}
	if len(sets) == 0 {
		return nil
	}

	// MySQL reports zero affected rows when the new values equal the old ones,
	// so existence is checked separately.
	if _, err := m.GetMediaAsset(ctx, parentType, parentID, kind, id); err != nil {
		return err
	}

	query := "UPDATE media_assets SET " + strings.Join(sets, ", ") +
		" WHERE id = ? AND parent_type = ? AND parent_id = ? AND kind = ?"
	args = append(args, id, parentType, parentID, kind)

	if _, err := m.Db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update media asset: %w", err)
	}
	return nil
}

func (m *MySQL) MediaSummary(ctx context.Context, parentType string, parentID int64) (media.Summary, error) {
	summary := media.Summary{ParentType: parentType, ParentID: parentID}

	rows, err := m.Db.QueryContext(ctx, `
	SELECT kind, COUNT(*), COALESCE(SUM(size), 0)
	FROM media_assets
	WHERE parent_type = ? AND parent_id = ? AND is_active = TRUE
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

func (m *MySQL) MediaFileReferenced(ctx context.Context, filePath string) (bool, error) {
	var exists bool
	err := m.Db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM media_assets WHERE file_path = ?)", filePath,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check file reference: %w", err)
	}
	return exists, nil
}

func (m *MySQL) CreateUser(ctx context.Context, email, password string) (string, error) {
	result, err := m.Db.ExecContext(ctx, "INSERT INTO users (email, password) VALUES (?, ?)", email, password)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == duplicateEntry {
			return "", storage.ErrDuplicate
		}
		return "", err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d", id), nil
}

func (m *MySQL) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var userID int64
	var hashedPassword string

	err := m.Db.QueryRowContext(ctx, "SELECT id, password FROM users WHERE email = ?", email).
		Scan(&userID, &hashedPassword)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", storage.ErrNotFound
		}
		return "", "", err
	}

	return fmt.Sprintf("%d", userID), hashedPassword, nil
}
