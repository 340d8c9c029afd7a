package mysql

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/princekumarofficial/tourism-media-service/internal/config"
	"github.com/princekumarofficial/tourism-media-service/internal/storage"
	"github.com/princekumarofficial/tourism-media-service/internal/types/media"
)

func newMock(t *testing.T) (*MySQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db), mock
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.MySQL{Host: "db", Port: "3306", User: "root", Password: "pw", DBName: "tourism"})
	require.Contains(t, dsn, "root:pw@tcp(db:3306)/tourism")
	require.Contains(t, dsn, "parseTime=true")
}

func TestParentExists_QuotesTable(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM `districts` WHERE id = ?)")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(0))

	ok, err := m.ParentExists(context.Background(), media.District, 4)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCreateMediaAssets_UsesLastInsertID(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO media_assets")).
		WillReturnResult(sqlmock.NewResult(40, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO media_assets")).
		WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectCommit()

	out, err := m.CreateMediaAssets(context.Background(), []media.MediaAsset{{FilePath: "a"}, {FilePath: "b"}})
	require.NoError(t, err)
	require.Equal(t, int64(40), out[0].ID)
	require.Equal(t, int64(41), out[1].ID)
}

func TestDeleteMediaAsset_NotFound(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM media_assets")).
		WithArgs(int64(9), "sanctuary", int64(7), "video").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := m.DeleteMediaAsset(context.Background(), "sanctuary", 7, media.KindVideo, 9)
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateMediaAsset_MissingRow(t *testing.T) {
	m, mock := newMock(t)

	active := false
	mock.ExpectQuery(regexp.QuoteMeta("FROM media_assets")).
		WithArgs(int64(9), "district", int64(2), "image").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := m.UpdateMediaAsset(context.Background(), "district", 2, media.KindImage, 9, media.AssetUpdate{IsActive: &active})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCreateUser_Duplicate(t *testing.T) {
	m, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&mysql.MySQLError{Number: duplicateEntry, Message: "Duplicate entry"})

	_, err := m.CreateUser(context.Background(), "a@b.c", "hash")
	require.ErrorIs(t, err, storage.ErrDuplicate)
}
