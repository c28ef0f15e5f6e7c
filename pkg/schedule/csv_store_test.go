package schedule

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *CSVStore {
	store := NewCSVStore(filepath.Join(t.TempDir(), "schedule.csv"))
	store.retryDelay = 0
	return store
}

func TestCSVStore_LoadInitializesMissingFile(t *testing.T) {
	store := setupTestStore(t)

	events, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)

	// The empty schema is persisted immediately.
	f, err := os.Open(store.path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, storeColumns, rows[0])
	assert.Equal(t, "Title", rows[0][0])
}

func TestCSVStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	saved := []Event{
		{
			ID:           "11111111-1111-1111-1111-111111111111",
			Date:         day(2024, time.March, 1),
			Type:         TypeWorkshop,
			Status:       StatusOffered,
			Source:       SourceEQS,
			Client:       "Acme",
			Course:       "Intro",
			Trainer:      "Dale",
			Medium:       MediumOnline,
			Location:     "Syd",
			Billing:      "PO-123",
			Invoiced:     InvoicedNo,
			Notes:        "bring adapters",
			DateModified: time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC),
			ActionType:   ActionCreated,
			ModifiedBy:   "sues@eqstrategist.com",
		},
	}
	require.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, saved[0], loaded[0])

	// save(load()) leaves the persisted content unchanged.
	before, err := os.ReadFile(store.path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, loaded))
	after, err := os.ReadFile(store.path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestCSVStore_LoadNormalizesLegacyFile(t *testing.T) {
	store := setupTestStore(t)

	// A legacy file: shuffled column order, time-of-day columns, and no
	// Modified By or ID columns.
	legacy := [][]string{
		{"Date", "Title", "Type", "Status", "Source", "Client", "Course/Description", "Trainer", "Medium", "Location", "Billing", "Invoiced", "Notes", "Date Modified", "Action Type", "Start Time", "End Time", "All Day"},
		{"2024-03-01", "stale title", "W", "Offered", "EQS", "Acme", "Intro", "Dale", "Online", "Syd", "", "No", "", "2024-03-01 09:30", "Created", "09:00", "17:00", "FALSE"},
	}
	f, err := os.Create(store.path)
	require.NoError(t, err)
	writer := csv.NewWriter(f)
	require.NoError(t, writer.WriteAll(legacy))
	require.NoError(t, f.Close())

	loaded, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	e := loaded[0]
	assert.Equal(t, day(2024, time.March, 1), e.Date)
	assert.Equal(t, TypeWorkshop, e.Type)
	assert.Equal(t, "Dale", e.Trainer)
	assert.NotEmpty(t, e.ID) // backfilled
	assert.Equal(t, "", e.ModifiedBy)
	// The title is derived, never read back from the file.
	assert.Equal(t, "Offered-EQS-Acme Intro (Online) Dale Syd", e.Title())

	// Saving rewrites the normalized schema, Title first, without the
	// legacy time-of-day columns.
	require.NoError(t, store.Save(context.Background(), loaded))
	f2, err := os.Open(store.path)
	require.NoError(t, err)
	defer f2.Close()
	rows, err := csv.NewReader(f2).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, storeColumns, rows[0])
}

func TestCSVStore_LoadDegradesToEmptyOnCorruptFile(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, os.WriteFile(store.path, []byte("\"unterminated"), 0644))

	events, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCSVStore_LastWriteWins(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := []Event{{ID: "a", Client: "Acme", Date: day(2024, time.March, 1)}}
	require.NoError(t, store.Save(ctx, base))

	// Two actors load the same snapshot; each saves its own full collection.
	first := append(append([]Event{}, base...), Event{ID: "b", Client: "Globex", Date: day(2024, time.March, 2)})
	second := append(append([]Event{}, base...), Event{ID: "c", Client: "Initech", Date: day(2024, time.March, 3)})
	require.NoError(t, store.Save(ctx, first))
	require.NoError(t, store.Save(ctx, second))

	// The second full-collection write silently discards the first actor's
	// change. This is the documented concurrency model, not a bug.
	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a", loaded[0].ID)
	assert.Equal(t, "c", loaded[1].ID)
}

func TestCSVStore_SaveReportsFailure(t *testing.T) {
	dir := t.TempDir()
	store := NewCSVStore(dir) // a directory is not writable as a file
	store.retryDelay = 0

	err := store.Save(context.Background(), []Event{{ID: "a"}})

	assert.Error(t, err)
}
