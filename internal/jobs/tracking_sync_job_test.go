package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSyncer struct {
	mock.Mock
}

func (m *mockSyncer) SyncAll(ctx context.Context) (int, int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Int(1), args.Error(2)
}

func TestTrackingSyncJobEmptySchedule(t *testing.T) {
	j := NewTrackingSyncJob(new(mockSyncer), "", slog.New(slog.DiscardHandler))
	assert.ErrorIs(t, j.Start(), ErrNoSchedule)
}

func TestTrackingSyncJobInvalidSchedule(t *testing.T) {
	j := NewTrackingSyncJob(new(mockSyncer), "every now and then", slog.New(slog.DiscardHandler))
	assert.Error(t, j.Start())
}

func TestTrackingSyncJobStartStop(t *testing.T) {
	j := NewTrackingSyncJob(new(mockSyncer), "*/15 * * * *", slog.New(slog.DiscardHandler))
	require.NoError(t, j.Start())
	j.Stop()
}

func TestTrackingSyncJobRunCallsSyncer(t *testing.T) {
	s := new(mockSyncer)
	s.On("SyncAll", mock.Anything).Return(3, 1, nil).Once()
	s.On("SyncAll", mock.Anything).Return(0, 0, errors.New("db down")).Once()

	j := NewTrackingSyncJob(s, "@hourly", slog.New(slog.DiscardHandler))
	j.Run()
	j.Run()

	s.AssertNumberOfCalls(t, "SyncAll", 2)
}

type blockingSyncer struct {
	started chan struct{}
}

func (b *blockingSyncer) SyncAll(ctx context.Context) (int, int, error) {
	close(b.started)
	<-ctx.Done()
	return 0, 0, ctx.Err()
}

func TestTrackingSyncJobStopCancelsRunningSweep(t *testing.T) {
	s := &blockingSyncer{started: make(chan struct{})}
	j := NewTrackingSyncJob(s, "@hourly", slog.New(slog.DiscardHandler))

	done := make(chan struct{})
	go func() {
		j.Run()
		close(done)
	}()
	<-s.started

	j.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep kept running after Stop")
	}
}
