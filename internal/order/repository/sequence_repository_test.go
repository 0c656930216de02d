package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biosen/internal/testutil"
)

// Unit Tests

func TestNewMySQLSequenceRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLSequenceRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "CMD-2025-00042", FormatNumber(ScopeOrder, 2025, 42))
	assert.Equal(t, "FAC-2025-00001", FormatNumber(ScopeInvoice, 2025, 1))
	assert.Equal(t, "CMD-2026-123456", FormatNumber(ScopeOrder, 2026, 123456))
}

// Integration Tests

func TestSequenceRepository_NextNumber_Sequential(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLSequenceRepository(db)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		got, err := repo.NextNumber(ctx, tx, ScopeOrder, 2025)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		assert.Equal(t, want, got)
	}
}

func TestSequenceRepository_NextNumber_ScopesAndYearsAreIndependent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLSequenceRepository(db)
	ctx := context.Background()

	claim := func(scope string, year int) int {
		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)
		got, err := repo.NextNumber(ctx, tx, scope, year)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		return got
	}

	assert.Equal(t, 1, claim(ScopeOrder, 2025))
	assert.Equal(t, 2, claim(ScopeOrder, 2025))
	assert.Equal(t, 1, claim(ScopeInvoice, 2025))
	assert.Equal(t, 1, claim(ScopeOrder, 2026))
}

func TestSequenceRepository_NextNumber_ConcurrentClaimsAreUnique(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLSequenceRepository(db)
	ctx := context.Background()

	// Seed the row first so every concurrent claimer goes through the
	// update path.
	seedTx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = repo.NextNumber(ctx, seedTx, ScopeInvoice, 2025)
	require.NoError(t, err)
	require.NoError(t, seedTx.Commit())

	const claimers = 10

	var wg sync.WaitGroup
	results := make(chan int, claimers)
	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				t.Errorf("begin tx: %v", err)
				return
			}
			got, err := repo.NextNumber(ctx, tx, ScopeInvoice, 2025)
			if err != nil {
				tx.Rollback()
				t.Errorf("claiming number: %v", err)
				return
			}
			if err := tx.Commit(); err != nil {
				t.Errorf("commit: %v", err)
				return
			}
			results <- got
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool)
	for got := range results {
		assert.False(t, seen[got], "value %d was claimed twice", got)
		assert.Greater(t, got, 1)
		seen[got] = true
	}
	assert.Len(t, seen, claimers)
}
