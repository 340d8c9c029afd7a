package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "env: test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "local", cfg.Storage.Backend)
	require.Equal(t, "uploads", cfg.Storage.UploadsDir)

	require.Equal(t, "galleryImages", cfg.Media.Image.Field)
	require.Equal(t, 50, cfg.Media.Image.MaxFiles)
	require.Equal(t, int64(10<<20), cfg.Media.Image.MaxFileSize)
	require.Contains(t, cfg.Media.Image.AllowedTypes, "image/webp")

	require.Equal(t, "video", cfg.Media.Video.Field)
	require.Equal(t, 1, cfg.Media.Video.MaxFiles)
	require.Equal(t, int64(100<<20), cfg.Media.Video.MaxFileSize)

	require.Equal(t, int64(30), cfg.RateLimits.Uploads.Capacity)

	require.Equal(t, time.Hour, cfg.Sweeper.Interval)
	require.Equal(t, 24*time.Hour, cfg.Sweeper.GracePeriod)
	require.False(t, cfg.Sweeper.DryRun)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
env: dev
database:
  driver: mysql
storage:
  backend: minio
media:
  image:
    max_files: 5
    allowed_types: ["image/png"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "mysql", cfg.Database.Driver)
	require.Equal(t, "minio", cfg.Storage.Backend)
	require.Equal(t, 5, cfg.Media.Image.MaxFiles)
	require.Equal(t, []string{"image/png"}, cfg.Media.Image.AllowedTypes)
	// untouched limits keep their defaults
	require.Equal(t, int64(10<<20), cfg.Media.Image.MaxFileSize)
}

func TestLoad_MemoryParents(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: memory
  memory:
    parents:
      sanctuary: [7, 9]
      district: [3]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []int64{7, 9}, cfg.Database.Memory.Parents["sanctuary"])
	require.Equal(t, []int64{3}, cfg.Database.Memory.Parents["district"])
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: oracle\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	p := Postgres{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	require.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", p.DSN())
}
