package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/symptom-triage-server/internal/domain"
)

// getTestDB returns a database connection for testing.
// Skip test if TEST_DATABASE_URL is not set.
func getTestDB(t *testing.T) *sql.DB {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL tests")
	}

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	// Create the symptom_checks table for testing
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS symptom_checks (
			id BIGSERIAL PRIMARY KEY,
			check_id TEXT NOT NULL UNIQUE,
			age INTEGER NOT NULL,
			gender TEXT DEFAULT '',
			symptoms JSONB NOT NULL,
			duration TEXT NOT NULL,
			severity TEXT NOT NULL,
			additional_info TEXT DEFAULT '',
			using_ai BOOLEAN NOT NULL DEFAULT FALSE,
			analysis_result JSONB NOT NULL,
			risk_level TEXT NOT NULL,
			seek_medical_attention BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	require.NoError(t, err)

	// Clean up before test
	_, err = db.Exec("DELETE FROM symptom_checks")
	require.NoError(t, err)

	return db
}

func TestNewPostgresStore_NilDB(t *testing.T) {
	store, err := NewPostgresStore(nil)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestPostgresStore_Save(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	record := sampleCheck("chk-pg-save-1")

	err = store.Save(ctx, record)
	require.NoError(t, err)
	assert.NotZero(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestPostgresStore_Get(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	record := sampleCheck("chk-pg-get-1")
	require.NoError(t, store.Save(ctx, record))

	retrieved, err := store.Get(ctx, "chk-pg-get-1")
	require.NoError(t, err)
	require.NotNil(t, retrieved)
	assert.Equal(t, record.CheckID, retrieved.CheckID)
	assert.Equal(t, record.Symptoms, retrieved.Symptoms)
	assert.Equal(t, record.RiskLevel, retrieved.RiskLevel)
	require.NotNil(t, retrieved.Result)
	assert.Equal(t, record.Result.RiskLevel, retrieved.Result.RiskLevel)
}

func TestPostgresStore_Get_NotFound(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	retrieved, err := store.Get(context.Background(), "chk-pg-missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, retrieved)
}

func TestPostgresStore_ListAndCount(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		record := sampleCheck(fmt.Sprintf("chk-pg-list-%d", i))
		require.NoError(t, store.Save(ctx, record))
	}

	list, err := store.List(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
}

func TestPostgresStore_Save_DBError(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO symptom_checks").
		WillReturnError(fmt.Errorf("connection reset"))

	err = store.Save(context.Background(), sampleCheck("chk-pg-err-1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save check")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Count_Mock(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()

	store, err := NewPostgresStore(db)
	require.NoError(t, err)

	ctx := context.Background()
	record := sampleCheck("chk-pg-del-1")
	require.NoError(t, store.Save(ctx, record))

	require.NoError(t, store.Delete(ctx, "chk-pg-del-1"))

	_, err = store.Get(ctx, "chk-pg-del-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
