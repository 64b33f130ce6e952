package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/signup/internal/client/client"
	"github.com/mergington/signup/internal/client/models"
	"github.com/mergington/signup/internal/client/repositories/metadata"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "signup.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestLoad_EmptyDatabase(t *testing.T) {
	s := NewSQLStore(setupDB(t))

	sess, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AuthSession{}, sess)
}

func TestSave_ThenLoad(t *testing.T) {
	db := setupDB(t)
	s := NewSQLStore(db)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.AuthSession{Token: "tok", Username: "mrodriguez"}))

	sess, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AuthSession{Token: "tok", Username: "mrodriguez"}, sess)

	all, err := metadata.NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"teacherToken": "tok", "teacherUsername": "mrodriguez"}, all)
}

func TestSave_EmptyUsernameStoredAsEmptyString(t *testing.T) {
	db := setupDB(t)
	s := NewSQLStore(db)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.AuthSession{Token: "tok"}))

	v, ok, err := metadata.NewSQLiteRepository(db).Get(ctx, "teacherUsername")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestSave_LoggedOutRemovesBothKeys(t *testing.T) {
	db := setupDB(t)
	s := NewSQLStore(db)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.AuthSession{Token: "tok", Username: "u"}))
	require.NoError(t, s.Save(ctx, models.AuthSession{Username: "ignored"}))

	all, err := metadata.NewSQLiteRepository(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoad_UsernameWithoutTokenIsLoggedOut(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	require.NoError(t, metadata.NewSQLiteRepository(db).Set(ctx, "teacherUsername", "orphan"))

	sess, err := NewSQLStore(db).Load(ctx)
	require.NoError(t, err)
	assert.False(t, sess.Authenticated())
	assert.Empty(t, sess.Username)
}

func TestSave_FailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO metadata")).WithArgs("teacherToken", "tok").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO metadata")).WithArgs("teacherUsername", "u").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewSQLStore(db).Save(context.Background(), models.AuthSession{Token: "tok", Username: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save session")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoad_ErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM metadata")).WillReturnError(errors.New("locked"))

	_, err = NewSQLStore(db).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load session")
}

func TestLoad_ReadsBothKeysInOneQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT key, value FROM metadata")).WillReturnRows(
		sqlmock.NewRows([]string{"key", "value"}).
			AddRow("teacherToken", "tok").
			AddRow("teacherUsername", "mrodriguez"),
	)

	got, err := NewSQLStore(db).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.AuthSession{Token: "tok", Username: "mrodriguez"}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
