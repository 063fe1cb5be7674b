package localstate

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:localstate?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS app_state (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
)`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM app_state`)
	require.NoError(t, err)
	return db
}

func TestSetGetRoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyAuthToken, "tok123"))

	got, err := repo.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	require.Equal(t, "tok123", got)
}

func TestGetMissingKeyReturnsEmpty(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)

	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSetOverwrites(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyUserName, "Alpha"))
	require.NoError(t, repo.Set(ctx, KeyUserName, "Beta"))

	got, err := repo.Get(ctx, KeyUserName)
	require.NoError(t, err)
	require.Equal(t, "Beta", got)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyUserRole, "Admin"))
	require.NoError(t, repo.Delete(ctx, KeyUserRole))

	got, err := repo.Get(ctx, KeyUserRole)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClearRemovesEverything(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyAuthToken, "tok"))
	require.NoError(t, repo.Set(ctx, KeyCurrentExpo, `{"id":1}`))
	require.NoError(t, repo.Clear(ctx))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestList(t *testing.T) {
	db := setupDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, KeyUserID, "1"))
	require.NoError(t, repo.Set(ctx, KeyUserName, "Admin User"))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{KeyUserID: "1", KeyUserName: "Admin User"}, all)
}

// Error paths are exercised with sqlmock; the happy paths above run against
// real sqlite.

func TestGetQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value FROM app_state`).WillReturnError(errors.New("disk I/O error"))

	repo := NewSQLiteRepository(db)
	_, err = repo.Get(context.Background(), KeyAuthToken)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get app_state")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetExecError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO app_state`).WillReturnError(errors.New("readonly database"))

	repo := NewSQLiteRepository(db)
	err = repo.Set(context.Background(), KeyAuthToken, "tok")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to set app_state")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"key"}).AddRow("only-one-column")
	mock.ExpectQuery(`SELECT key, value FROM app_state`).WillReturnRows(rows)

	repo := NewSQLiteRepository(db)
	_, err = repo.List(context.Background())
	require.Error(t, err)
}
