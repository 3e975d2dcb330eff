package store_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/farm/store"
)

func TestStore_ReadAfterWrite(t *testing.T) {
	s := store.New()

	batch := farm.Batch{ID: uuid.New(), Name: "March Batch", NumChicks: 500, IsActive: true}

	s.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(batch)
	})

	got := s.Snapshot()
	require.Len(t, got.Batches, 1)
	assert.Equal(t, batch, got.Batches[0])
}

func TestStore_SnapshotIsolation(t *testing.T) {
	s := store.New()

	s.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(farm.Batch{ID: uuid.New(), Name: "Original"})
	})

	before := s.Snapshot()

	s.Mutate(func(state *farm.Snapshot) {
		state.Batches[0].Name = "Renamed"
	})

	// The snapshot taken before the second mutation must not see it.
	assert.Equal(t, "Original", before.Batches[0].Name)
	assert.Equal(t, "Renamed", s.Snapshot().Batches[0].Name)
}

func TestStore_NotifiesSynchronously(t *testing.T) {
	s := store.New()

	var seen []int
	s.Subscribe(func(snap farm.Snapshot) {
		seen = append(seen, len(snap.Batches))
	})

	s.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(farm.Batch{ID: uuid.New()})
	})
	s.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(farm.Batch{ID: uuid.New()})
	})

	// Listeners run before Mutate returns, once per mutation, and each sees
	// the fully applied state.
	assert.Equal(t, []int{1, 2}, seen)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := store.New()

	calls := 0
	cancel := s.Subscribe(func(farm.Snapshot) { calls++ })

	s.Mutate(func(state *farm.Snapshot) {})
	cancel()
	s.Mutate(func(state *farm.Snapshot) {})

	assert.Equal(t, 1, calls)
}

func TestStore_Replace(t *testing.T) {
	s := store.New()

	s.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(farm.Batch{ID: uuid.New(), Name: "Old"})
	})

	next := farm.Snapshot{
		Batches: []farm.Batch{{ID: uuid.New(), Name: "Restored"}},
	}

	notified := false
	s.Subscribe(func(snap farm.Snapshot) {
		notified = true
		assert.Equal(t, "Restored", snap.Batches[0].Name)
	})

	s.Replace(next)

	assert.True(t, notified)
	require.Len(t, s.Snapshot().Batches, 1)
	assert.Equal(t, "Restored", s.Snapshot().Batches[0].Name)

	// The store cloned the incoming state; mutating the caller's copy later
	// must not leak in.
	next.Batches[0].Name = "Tampered"
	assert.Equal(t, "Restored", s.Snapshot().Batches[0].Name)
}
