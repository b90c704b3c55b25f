package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lromerov/itemcat/internal/db"
	"github.com/lromerov/itemcat/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	return d
}

func strPtr(s string) *string { return &s }

func TestItemStoreCreate(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := items.Create(ctx, "Chair", "Oak chair", "Furniture", nil)
	require.NoError(t, err)
	assert.NotZero(t, item.ID)
	assert.Equal(t, "Chair", item.Name)
	assert.Equal(t, "Oak chair", item.Description)
	assert.Equal(t, "Furniture", item.Category)
	assert.Nil(t, item.ImagePath)
}

func TestItemStoreCreateWithImage(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := items.Create(ctx, "Lamp", "", "", strPtr("lamp.jpg"))
	require.NoError(t, err)
	require.NotNil(t, item.ImagePath)
	assert.Equal(t, "lamp.jpg", *item.ImagePath)
}

func TestItemStoreCreateAssignsFreshIDs(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	first, err := items.Create(ctx, "One", "", "", nil)
	require.NoError(t, err)
	second, err := items.Create(ctx, "Two", "", "", nil)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	// A deleted id is never handed out again.
	require.NoError(t, items.Delete(ctx, second.ID))
	third, err := items.Create(ctx, "Three", "", "", nil)
	require.NoError(t, err)
	assert.Greater(t, third.ID, second.ID)
}

func TestItemStoreGetByIDNotFound(t *testing.T) {
	items := NewItemStore(openTestDB(t))

	_, err := items.GetByID(context.Background(), 12345)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStoreListAscendingByID(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	_, err := items.Create(ctx, "Zebra", "", "", nil)
	require.NoError(t, err)
	_, err = items.Create(ctx, "Apple", "", "", nil)
	require.NoError(t, err)
	_, err = items.Create(ctx, "Mango", "", "", nil)
	require.NoError(t, err)

	list, err := items.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Insertion order, not alphabetical.
	assert.Equal(t, "Zebra", list[0].Name)
	assert.Equal(t, "Apple", list[1].Name)
	assert.Equal(t, "Mango", list[2].Name)
	assert.Less(t, list[0].ID, list[1].ID)
	assert.Less(t, list[1].ID, list[2].ID)
}

func TestItemStoreListEmpty(t *testing.T) {
	items := NewItemStore(openTestDB(t))

	list, err := items.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestItemStoreUpdatePartial(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := items.Create(ctx, "Chair", "Oak chair", "Furniture", nil)
	require.NoError(t, err)

	updated, err := items.Update(ctx, item.ID, domain.ItemUpdate{
		Description: strPtr("Walnut chair"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Chair", updated.Name)
	assert.Equal(t, "Walnut chair", updated.Description)
	assert.Equal(t, "Furniture", updated.Category)
}

func TestItemStoreUpdateClearsFields(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := items.Create(ctx, "Chair", "Oak chair", "Furniture", nil)
	require.NoError(t, err)

	updated, err := items.Update(ctx, item.ID, domain.ItemUpdate{
		Description: strPtr(""),
		Category:    strPtr(""),
	})
	require.NoError(t, err)
	assert.Empty(t, updated.Description)
	assert.Empty(t, updated.Category)
	assert.Equal(t, "Chair", updated.Name)
}

func TestItemStoreUpdateNothingProvided(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := items.Create(ctx, "Chair", "Oak chair", "Furniture", nil)
	require.NoError(t, err)

	updated, err := items.Update(ctx, item.ID, domain.ItemUpdate{})
	require.NoError(t, err)
	assert.Equal(t, item, updated)
}

func TestItemStoreUpdateNotFound(t *testing.T) {
	items := NewItemStore(openTestDB(t))

	_, err := items.Update(context.Background(), 999, domain.ItemUpdate{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStoreSetImagePath(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := items.Create(ctx, "Chair", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, items.SetImagePath(ctx, item.ID, strPtr("chair.jpg")))

	got, err := items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ImagePath)
	assert.Equal(t, "chair.jpg", *got.ImagePath)

	require.NoError(t, items.SetImagePath(ctx, item.ID, nil))
	got, err = items.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ImagePath)
}

func TestItemStoreSetImagePathNotFound(t *testing.T) {
	items := NewItemStore(openTestDB(t))

	err := items.SetImagePath(context.Background(), 999, strPtr("x.jpg"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStoreDelete(t *testing.T) {
	items := NewItemStore(openTestDB(t))
	ctx := context.Background()

	item, err := items.Create(ctx, "Chair", "", "", nil)
	require.NoError(t, err)

	require.NoError(t, items.Delete(ctx, item.ID))

	_, err = items.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemStoreDeleteNotFound(t *testing.T) {
	items := NewItemStore(openTestDB(t))

	err := items.Delete(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
