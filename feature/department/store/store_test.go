package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"datasync/core/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite DB holding the managed table.
// DESCRIPTION rejects the value 'boom' so tests can fail a chosen statement.
func setupTestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.Exec(`CREATE TABLE DZ_COMPANY (
		ID INTEGER PRIMARY KEY AUTOINCREMENT,
		DEPCODE VARCHAR(20) NOT NULL,
		DEPJOB VARCHAR(100) NOT NULL,
		DESCRIPTION VARCHAR(255),
		UNIQUE (DEPCODE, DEPJOB),
		CHECK (DESCRIPTION IS NULL OR DESCRIPTION <> 'boom')
	)`).Error
	if err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	return db
}

func seed(t *testing.T, db *gorm.DB, records ...reconcile.Record) {
	for _, r := range records {
		var desc any
		if r.Description.Valid {
			desc = r.Description.String
		}
		err := db.Exec("INSERT INTO DZ_COMPANY (DEPCODE, DEPJOB, DESCRIPTION) VALUES (?, ?, ?)", r.Key.Code, r.Key.Job, desc).Error
		require.NoError(t, err)
	}
}

func TestFetchAll(t *testing.T) {
	db := setupTestDB(t, "fetch_all")
	seed(t, db,
		reconcile.NewRecord("c1", "j1", "plain"),
		reconcile.NewRecord("c2", "j2", ""),
		reconcile.NewNullRecord("c3", "j3"),
	)

	s := New(db, DefaultConfig(), nil)
	got, err := s.FetchAll(context.Background())
	require.NoError(t, err)

	want := reconcile.MustCollection(
		reconcile.NewRecord("c1", "j1", "plain"),
		reconcile.NewRecord("c2", "j2", ""),
		reconcile.NewNullRecord("c3", "j3"),
	)
	assert.True(t, want.Equal(got), "got %v", got.Records())
}

func TestFetchAll_Empty(t *testing.T) {
	db := setupTestDB(t, "fetch_empty")

	got, err := New(db, DefaultConfig(), nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, got.Len())
}

func TestFetchAll_DuplicateKey(t *testing.T) {
	db := setupTestDB(t, "fetch_duplicate")
	require.NoError(t, db.Exec(`CREATE TABLE LOOSE (DEPCODE TEXT, DEPJOB TEXT, DESCRIPTION TEXT)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO LOOSE VALUES ('c1', 'j1', 'a'), ('c1', 'j1', 'b')`).Error)

	cfg := DefaultConfig()
	cfg.Name = "LOOSE"

	got, err := New(db, cfg, nil).FetchAll(context.Background())
	assert.Nil(t, got)

	var dup *reconcile.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
}

func TestFetchAll_NullKey(t *testing.T) {
	db := setupTestDB(t, "fetch_null_key")
	require.NoError(t, db.Exec(`CREATE TABLE LOOSE (DEPCODE TEXT, DEPJOB TEXT, DESCRIPTION TEXT)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO LOOSE VALUES (NULL, 'j1', 'a')`).Error)

	cfg := DefaultConfig()
	cfg.Name = "LOOSE"

	_, err := New(db, cfg, nil).FetchAll(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "NULL key")
}

func TestFetchAll_MissingTable(t *testing.T) {
	db := setupTestDB(t, "fetch_missing_table")
	cfg := DefaultConfig()
	cfg.Name = "NOPE"

	_, err := New(db, cfg, nil).FetchAll(context.Background())
	assert.Error(t, err)
}

func TestVerifySchema(t *testing.T) {
	db := setupTestDB(t, "verify_schema")
	assert.NoError(t, New(db, DefaultConfig(), nil).VerifySchema(context.Background()))

	cfg := DefaultConfig()
	cfg.DescriptionColumn = "DETAILS"
	assert.Error(t, New(db, cfg, nil).VerifySchema(context.Background()))
}

func TestApply(t *testing.T) {
	db := setupTestDB(t, "apply_ok")
	seed(t, db,
		reconcile.NewRecord("c1", "j1", "keep"),
		reconcile.NewRecord("c2", "j2", "old"),
		reconcile.NewRecord("c3", "j3", "gone"),
		reconcile.NewRecord("c4", "j4", "to null"),
	)

	s := New(db, DefaultConfig(), nil)
	ctx := context.Background()

	target, err := s.FetchAll(ctx)
	require.NoError(t, err)

	source := reconcile.MustCollection(
		reconcile.NewRecord("c1", "j1", "keep"),
		reconcile.NewRecord("c2", "j2", ""),
		reconcile.NewNullRecord("c4", "j4"),
		reconcile.NewRecord("c5", "j5", "it's new"),
		reconcile.NewNullRecord("c6", "j6"),
	)

	cs, err := reconcile.Diff(source, target)
	require.NoError(t, err)
	require.NoError(t, s.Apply(ctx, cs))

	after, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.True(t, source.Equal(after), "got %v", after.Records())

	// The store now matches the source
	_, err = reconcile.Diff(source, after)
	assert.ErrorIs(t, err, reconcile.ErrNoChanges)
}

func TestApply_ManyBatches(t *testing.T) {
	db := setupTestDB(t, "apply_batches")
	s := New(db, DefaultConfig(), nil)
	ctx := context.Background()

	records := make([]reconcile.Record, 0, 23)
	for i := 0; i < 23; i++ {
		records = append(records, reconcile.NewRecord(fmt.Sprintf("c%02d", i), "job", fmt.Sprintf("d%d", i)))
	}
	source := reconcile.MustCollection(records...)

	cs, err := reconcile.Diff(source, reconcile.MustCollection())
	require.NoError(t, err)
	require.NoError(t, s.Apply(ctx, cs))

	after, err := s.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 23, after.Len())
	assert.True(t, source.Equal(after))
}

func TestApply_RollbackOnFailure(t *testing.T) {
	tests := []struct {
		name      string
		batchSize int
	}{
		{name: "Failure in final flush", batchSize: 5},
		{name: "Failure after earlier flushes", batchSize: 2},
		{name: "Single statement batches", batchSize: 1},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t, fmt.Sprintf("apply_rollback_%d", i))
			seed(t, db,
				reconcile.NewRecord("c1", "j1", "delete me"),
				reconcile.NewRecord("c2", "j2", "update me"),
				reconcile.NewNullRecord("c3", "j3"),
			)

			cfg := DefaultConfig()
			cfg.BatchSize = tt.batchSize
			s := New(db, cfg, nil)
			ctx := context.Background()

			before, err := s.FetchAll(ctx)
			require.NoError(t, err)

			// delete c1, update c2, then the insert of c9 violates the CHECK
			source := reconcile.MustCollection(
				reconcile.NewRecord("c2", "j2", "updated"),
				reconcile.NewNullRecord("c3", "j3"),
				reconcile.NewRecord("c9", "j9", "boom"),
			)
			cs, err := reconcile.Diff(source, before)
			require.NoError(t, err)
			require.Equal(t, 3, cs.Len())

			err = s.Apply(ctx, cs)
			var swe *reconcile.StoreWriteError
			require.True(t, errors.As(err, &swe), "expected StoreWriteError, got %v", err)
			assert.Contains(t, err.Error(), "statement 3")

			after, err := s.FetchAll(ctx)
			require.NoError(t, err)
			assert.True(t, before.Equal(after), "store changed: %v", after.Records())
		})
	}
}
