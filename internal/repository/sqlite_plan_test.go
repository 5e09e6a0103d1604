package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day1 = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func TestSlotRepo_ListPlannedJoinsItems(t *testing.T) {
	conn := testutil.NewTestDB(t)
	items, slots := NewSQLiteItemRepo(conn), NewSQLiteSlotRepo(conn)
	ctx := context.Background()

	item := testutil.NewTestItem("u-1", day1)
	src := "oats"
	item.SourceTemplateID = &src
	require.NoError(t, NewSQLiteTemplateRepo(conn).Upsert(ctx, testutil.NewTestMealTemplate("oats", 300)))
	require.NoError(t, items.Create(ctx, item))
	require.NoError(t, slots.Create(ctx, testutil.NewTestSlot(item, day1, "breakfast")))
	require.NoError(t, slots.Create(ctx, testutil.NewTestSlot(item, day1.AddDate(0, 0, 1), "breakfast")))

	planned, err := slots.ListPlanned(ctx, "u-1", day1, day1)
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, "breakfast", planned[0].Slot.Label)
	assert.Equal(t, day1, planned[0].Slot.Date)
	assert.Equal(t, item.ID, planned[0].Item.ID)
	assert.Equal(t, "oats", *planned[0].Item.SourceTemplateID)
	assert.Equal(t, item.Content, planned[0].Item.Content)

	week, err := slots.ListByUserRange(ctx, "u-1", day1, day1.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Len(t, week, 2)

	other, err := slots.ListPlanned(ctx, "u-2", day1, day1)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSlotRepo_UniquePerUserDateLabel(t *testing.T) {
	conn := testutil.NewTestDB(t)
	items, slots := NewSQLiteItemRepo(conn), NewSQLiteSlotRepo(conn)
	ctx := context.Background()

	item := testutil.NewTestItem("u-1", day1)
	require.NoError(t, items.Create(ctx, item))
	require.NoError(t, slots.Create(ctx, testutil.NewTestSlot(item, day1, "lunch")))

	err := slots.Create(ctx, testutil.NewTestSlot(item, day1, "lunch"))
	assert.Error(t, err)
}

func TestSlotRepo_MarkCompletedKeepsFirstTimestamp(t *testing.T) {
	conn := testutil.NewTestDB(t)
	items, slots := NewSQLiteItemRepo(conn), NewSQLiteSlotRepo(conn)
	ctx := context.Background()

	item := testutil.NewTestItem("u-1", day1)
	require.NoError(t, items.Create(ctx, item))
	slot := testutil.NewTestSlot(item, day1, "dinner")
	require.NoError(t, slots.Create(ctx, slot))

	first := day1.Add(19 * time.Hour)
	require.NoError(t, slots.MarkCompleted(ctx, slot.ID, first))
	require.NoError(t, slots.MarkCompleted(ctx, slot.ID, first.Add(time.Hour)))

	got, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, first.Equal(*got.CompletedAt))

	assert.ErrorIs(t, slots.MarkCompleted(ctx, "nope", first), ErrNotFound)
}

func TestSlotRepo_DeleteRangeThenOrphans(t *testing.T) {
	conn := testutil.NewTestDB(t)
	items, slots := NewSQLiteItemRepo(conn), NewSQLiteSlotRepo(conn)
	ctx := context.Background()

	// carried spans day1 and day2; single lives only on day2.
	carried := testutil.NewTestItem("u-1", day1)
	single := testutil.NewTestItem("u-1", day1.AddDate(0, 0, 1))
	require.NoError(t, items.Create(ctx, carried))
	require.NoError(t, items.Create(ctx, single))
	require.NoError(t, slots.Create(ctx, testutil.NewTestSlot(carried, day1, "dinner")))
	require.NoError(t, slots.Create(ctx, testutil.NewTestSlot(carried, day1.AddDate(0, 0, 1), "dinner")))
	require.NoError(t, slots.Create(ctx, testutil.NewTestSlot(single, day1.AddDate(0, 0, 1), "lunch")))

	n, err := slots.DeleteRange(ctx, "u-1", day1.AddDate(0, 0, 1), day1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	removed, err := items.DeleteOrphans(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = items.GetByID(ctx, single.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = items.GetByID(ctx, carried.ID)
	assert.NoError(t, err, "still referenced by day1")

	remaining, err := slots.ListByItem(ctx, carried.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestItemRepo_SetCompleted(t *testing.T) {
	conn := testutil.NewTestDB(t)
	items := NewSQLiteItemRepo(conn)
	ctx := context.Background()

	item := testutil.NewTestItem("u-1", day1)
	item.IsFallback = true
	item.RemainingServings = 2
	require.NoError(t, items.Create(ctx, item))
	require.NoError(t, items.SetCompleted(ctx, item.ID, true))

	got, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.True(t, got.IsFallback)
	assert.Equal(t, 2, got.RemainingServings)
	assert.Nil(t, got.SourceTemplateID)

	assert.ErrorIs(t, items.SetCompleted(ctx, "missing", true), ErrNotFound)
}
