package persist_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/farm/store"
	"github.com/nooranifarms/coopledger/internal/persist"
)

func TestWorker_SavesEveryMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := persist.NewMockWriter(ctrl)

	var (
		mu    sync.Mutex
		saved []farm.Snapshot
	)

	writer.EXPECT().
		SaveSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snap farm.Snapshot) error {
			mu.Lock()
			defer mu.Unlock()
			saved = append(saved, snap)
			return nil
		}).
		Times(2)

	records := store.New()
	worker := persist.NewWorker(writer, time.Second)
	worker.Attach(records)

	records.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(farm.Batch{ID: uuid.New(), Name: "A"})
	})
	records.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(farm.Batch{ID: uuid.New(), Name: "B"})
	})

	worker.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, saved, 2)
}

func TestWorker_SaveFailureDoesNotBlockMutations(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := persist.NewMockWriter(ctrl)

	writer.EXPECT().
		SaveSnapshot(gomock.Any(), gomock.Any()).
		Return(errors.New("database gone")).
		AnyTimes()

	records := store.New()
	worker := persist.NewWorker(writer, time.Second)
	worker.Attach(records)

	records.Mutate(func(state *farm.Snapshot) {
		state.PutBatch(farm.Batch{ID: uuid.New(), Name: "A"})
	})

	worker.Wait()

	// The in-memory state is authoritative; a failed save changes nothing.
	assert.Len(t, records.Snapshot().Batches, 1)
}

func TestWorker_DetachStopsSaves(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := persist.NewMockWriter(ctrl)

	writer.EXPECT().
		SaveSnapshot(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	records := store.New()
	worker := persist.NewWorker(writer, time.Second)
	detach := worker.Attach(records)

	records.Mutate(func(state *farm.Snapshot) {})
	worker.Wait()

	detach()

	records.Mutate(func(state *farm.Snapshot) {})
	worker.Wait()
}
