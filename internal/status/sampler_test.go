package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contract-archive/internal/model"
)

type fakeStore struct {
	pingErr   error
	failTable model.Table
	pings     int
}

func (f *fakeStore) Ping(context.Context) (time.Duration, error) {
	f.pings++
	if f.pingErr != nil {
		return 0, f.pingErr
	}
	return 3 * time.Millisecond, nil
}

func (f *fakeStore) CountRows(_ context.Context, table model.Table) (int64, error) {
	if table == f.failTable {
		return 0, errors.New("no such table")
	}
	return 1, nil
}

func TestSamplerSample(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(0)}
	recorder := newRecorderWithClock(4, time.Second, clock.Now)
	store := &fakeStore{failTable: model.TableContractTypes}
	sampler := NewSampler(store, recorder, zerolog.Nop())

	sampler.Sample(context.Background())

	snap := recorder.Snapshot()
	assert.True(t, snap.Connectivity[0])
	assert.False(t, snap.Operations[0])
	assert.False(t, snap.Tables["contract_types"][0])
	assert.True(t, snap.Tables["contracts"][0])
	assert.Equal(t, int64(3), snap.DBLatency[0])
}

func TestSamplerSampleUnreachable(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(1_000)}
	recorder := newRecorderWithClock(4, time.Second, clock.Now)
	sampler := NewSampler(&fakeStore{pingErr: errors.New("refused")}, recorder, zerolog.Nop())

	sampler.Sample(context.Background())

	snap := recorder.Snapshot()
	assert.False(t, snap.Connectivity[1])
	assert.False(t, snap.Operations[1])
}

func TestSamplerTicksChangeAtMostOneSlotEach(t *testing.T) {
	clock := &fakeClock{t: time.UnixMilli(0)}
	recorder := newRecorderWithClock(10, time.Second, clock.Now)
	sampler := NewSampler(&fakeStore{}, recorder, zerolog.Nop())

	const ticks = 3
	for i := 0; i < ticks; i++ {
		sampler.Sample(context.Background())
		clock.Advance(time.Second)
	}

	changed := 0
	for _, ok := range recorder.Snapshot().Connectivity {
		if ok {
			changed++
		}
	}
	assert.LessOrEqual(t, changed, ticks)
	assert.Equal(t, ticks, changed)
}

func TestSamplerRunStopsOnCancel(t *testing.T) {
	recorder := NewRecorder(4, 10*time.Millisecond)
	store := &fakeStore{}
	sampler := NewSampler(store, recorder, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sampler.Run(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sampler did not stop")
	}
	require.GreaterOrEqual(t, store.pings, 1)
}
