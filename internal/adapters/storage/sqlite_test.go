package storage_test

import (
	"context"
	"testing"

	"github.com/alejandrodnm/storearb/internal/adapters/storage"
	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeOpportunity(from, to, item string, total float64) domain.Opportunity {
	return domain.Opportunity{
		BuyFrom:              from,
		SellTo:               to,
		ItemName:             item,
		BuyPrice:             10,
		SellPrice:            15,
		ProfitPerItem:        5,
		PotentialQuantity:    total / 5,
		TotalPotentialProfit: total,
	}
}

func TestSQLiteStorage_LoadEmpty(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:", "Gold")
	require.NoError(t, err)
	defer db.Close()

	set, err := db.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestSQLiteStorage_SaveAndLoad(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:", "Gold")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	set := domain.NewOpportunitySet(
		makeOpportunity("B", "A", "Lantern", 24),
		makeOpportunity("A", "B", "Widget", 15),
	)
	require.NoError(t, db.Save(ctx, set))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())

	// Conserva el orden original
	items := loaded.Items()
	assert.Equal(t, "Lantern", items[0].ItemName)
	assert.Equal(t, set.Items(), items)
}

func TestSQLiteStorage_LoadReturnsLatestRun(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:", "Gold")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Save(ctx, domain.NewOpportunitySet(makeOpportunity("A", "B", "Widget", 15))))
	require.NoError(t, db.Save(ctx, domain.NewOpportunitySet(
		makeOpportunity("A", "B", "Widget", 30),
		makeOpportunity("C", "B", "Rope", 8),
	)))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	got, ok := loaded.Get(domain.OpportunityKey{BuyFrom: "A", SellTo: "B", ItemName: "Widget"})
	require.True(t, ok)
	assert.Equal(t, 30.0, got.TotalPotentialProfit)
}

func TestSQLiteStorage_EmptySaveBecomesLatest(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:", "Gold")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Save(ctx, domain.NewOpportunitySet(makeOpportunity("A", "B", "Widget", 15))))
	require.NoError(t, db.Save(ctx, domain.OpportunitySet{}))

	loaded, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Len())
}

func TestSQLiteStorage_History(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:", "Gold")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Save(ctx, domain.NewOpportunitySet(makeOpportunity("A", "B", "Widget", 15))))
	require.NoError(t, db.Save(ctx, domain.NewOpportunitySet(
		makeOpportunity("A", "B", "Widget", 30),
		makeOpportunity("C", "B", "Rope", 8),
	)))

	runs, err := db.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// Más reciente primero
	assert.Equal(t, 2, runs[0].Opportunities)
	assert.InDelta(t, 38.0, runs[0].TotalProfit, 0.001)
	assert.Equal(t, "Gold", runs[0].Currency)
	assert.NotEmpty(t, runs[0].RunID)
	assert.False(t, runs[0].ScannedAt.IsZero())
	assert.Equal(t, 1, runs[1].Opportunities)
}
