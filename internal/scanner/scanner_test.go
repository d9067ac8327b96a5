package scanner_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/alejandrodnm/storearb/internal/ports"
	"github.com/alejandrodnm/storearb/internal/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockStoreProvider struct {
	stores []domain.Store
	err    error
}

func (m *mockStoreProvider) FetchStores(_ context.Context) ([]domain.Store, error) {
	return m.stores, m.err
}

type mockNotifier struct {
	reports []domain.Report
	err     error
}

func (m *mockNotifier) Notify(_ context.Context, r domain.Report) error {
	m.reports = append(m.reports, r)
	return m.err
}

type mockSnapshotStore struct {
	saved   *domain.OpportunitySet
	loadErr error
	saveErr error
	loads   int
	saves   int
}

func (m *mockSnapshotStore) Load(_ context.Context) (domain.OpportunitySet, error) {
	m.loads++
	if m.loadErr != nil {
		return domain.OpportunitySet{}, m.loadErr
	}
	if m.saved == nil {
		return domain.OpportunitySet{}, nil
	}
	return *m.saved, nil
}

func (m *mockSnapshotStore) Save(_ context.Context, set domain.OpportunitySet) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &set
	return nil
}

func (m *mockSnapshotStore) Close() error { return nil }

// --- helpers ---

func newTestScanner(sp ports.StoreProvider, ss ports.SnapshotStore, n ports.Notifier) *scanner.Scanner {
	cfg := scanner.DefaultConfig()
	cfg.Currency = "Gold"
	cfg.MinProfitPerItem = 1
	return scanner.New(cfg, sp, ss, n)
}

// --- tests ---

func TestScanner_RunOnce_FirstRun(t *testing.T) {
	sp := &mockStoreProvider{stores: widgetStores()}
	ss := &mockSnapshotStore{}
	n := &mockNotifier{}

	report, err := newTestScanner(sp, ss, n).RunOnce(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "Gold", report.Currency)
	assert.Equal(t, 2, report.Stores)
	assert.Equal(t, 1, report.Current.Len())
	assert.False(t, report.HasPrevious)
	assert.Len(t, report.Changes.Appeared, 1)

	require.NotNil(t, ss.saved)
	assert.Equal(t, 1, ss.saved.Len())
	require.Len(t, n.reports, 1)
}

func TestScanner_RunOnce_SecondRunDiffs(t *testing.T) {
	sp := &mockStoreProvider{stores: widgetStores()}
	ss := &mockSnapshotStore{}
	n := &mockNotifier{}
	s := newTestScanner(sp, ss, n)

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	// B ahora quiere 5 unidades → total sube de 15 a 25
	sp.stores = widgetStores()
	sp.stores[1].Offers[0].MaxWanted = domain.Bounded(5)

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)

	assert.True(t, report.HasPrevious)
	assert.Empty(t, report.Changes.Appeared)
	assert.Empty(t, report.Changes.Gone)
	require.Len(t, report.Changes.Increased, 1)
	assert.Equal(t, 25.0, report.Changes.Increased[0].TotalPotentialProfit)
}

func TestScanner_RunOnce_FetchFailureAborts(t *testing.T) {
	sp := &mockStoreProvider{err: fmt.Errorf("wrapped: %w", domain.ErrFetchFailed)}
	ss := &mockSnapshotStore{}
	n := &mockNotifier{}

	_, err := newTestScanner(sp, ss, n).RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	assert.Equal(t, 0, ss.loads)
	assert.Equal(t, 0, ss.saves, "no se muta el estado persistido")
	assert.Empty(t, n.reports)
}

func TestScanner_RunOnce_MalformedSnapshotAborts(t *testing.T) {
	sp := &mockStoreProvider{err: domain.ErrMalformedSnapshot}
	ss := &mockSnapshotStore{}

	_, err := newTestScanner(sp, ss, &mockNotifier{}).RunOnce(context.Background())
	assert.ErrorIs(t, err, domain.ErrMalformedSnapshot)
	assert.Equal(t, 0, ss.saves)
}

func TestScanner_RunOnce_CorruptStateTreatedAsEmpty(t *testing.T) {
	sp := &mockStoreProvider{stores: widgetStores()}
	ss := &mockSnapshotStore{loadErr: fmt.Errorf("bad json: %w", domain.ErrPersistenceRead)}
	n := &mockNotifier{}

	report, err := newTestScanner(sp, ss, n).RunOnce(context.Background())
	require.NoError(t, err)

	assert.False(t, report.HasPrevious)
	assert.Len(t, report.Changes.Appeared, 1)
	assert.Equal(t, 1, ss.saves)
}

func TestScanner_RunOnce_SaveErrorNotFatal(t *testing.T) {
	sp := &mockStoreProvider{stores: widgetStores()}
	ss := &mockSnapshotStore{saveErr: errors.New("disk full")}
	n := &mockNotifier{}

	report, err := newTestScanner(sp, ss, n).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Current.Len())
	assert.Len(t, n.reports, 1)
}

func TestScanner_RunOnce_NotifierErrorNotFatal(t *testing.T) {
	sp := &mockStoreProvider{stores: widgetStores()}
	n := &mockNotifier{err: errors.New("stdout closed")}

	_, err := newTestScanner(sp, &mockSnapshotStore{}, n).RunOnce(context.Background())
	assert.NoError(t, err)
}

func TestScanner_RunOnce_EmptyResultStillSaved(t *testing.T) {
	prev := domain.NewOpportunitySet(makeOpp("A", "B", "Widget", 15))
	sp := &mockStoreProvider{stores: nil}
	ss := &mockSnapshotStore{saved: &prev}

	report, err := newTestScanner(sp, ss, &mockNotifier{}).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Current.Len())
	require.Len(t, report.Changes.Gone, 1)
	require.NotNil(t, ss.saved)
	assert.Equal(t, 0, ss.saved.Len())
}

func TestScanner_RunOnce_DryRunDoesNotSave(t *testing.T) {
	cfg := scanner.DefaultConfig()
	cfg.Currency = "Gold"
	cfg.MinProfitPerItem = 1
	cfg.DryRun = true

	ss := &mockSnapshotStore{}
	s := scanner.New(cfg, &mockStoreProvider{stores: widgetStores()}, ss, &mockNotifier{})

	_, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, ss.loads)
	assert.Equal(t, 0, ss.saves)
}

func TestScanner_RunOnce_NilSnapshotStore(t *testing.T) {
	n := &mockNotifier{}
	report, err := newTestScanner(&mockStoreProvider{stores: widgetStores()}, nil, n).RunOnce(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasPrevious)
	assert.Equal(t, 1, report.Current.Len())
}

func TestScanner_Run_SingleRunReturnsError(t *testing.T) {
	sp := &mockStoreProvider{err: domain.ErrFetchFailed}
	err := newTestScanner(sp, nil, &mockNotifier{}).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
}

func TestScanner_Run_SingleRunSuccess(t *testing.T) {
	n := &mockNotifier{}
	err := newTestScanner(&mockStoreProvider{stores: widgetStores()}, nil, n).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, n.reports, 1)
}
