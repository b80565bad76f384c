package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-milestone/internal/engine"
	"github.com/tartampluch/go-milestone/internal/metrics"
	"github.com/tartampluch/go-milestone/internal/worker"
)

// MockSyncer stands in for the engine's Generator.
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) RunSync(ctx context.Context, cfg engine.SyncConfig) (engine.SyncResult, error) {
	args := m.Called(ctx, cfg)
	return args.Get(0).(engine.SyncResult), args.Error(1)
}

// recordingPublisher keeps every published feed.
type recordingPublisher struct {
	mu    sync.Mutex
	feeds [][]byte
}

func (p *recordingPublisher) Update(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.feeds = append(p.feeds, data)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.feeds)
}

func TestSyncOnce_PublishesOnSuccess(t *testing.T) {
	syncer := new(MockSyncer)
	cfg := engine.SyncConfig{AgeYears: 37}
	syncer.On("RunSync", mock.Anything, cfg).Return(engine.SyncResult{
		ICS:      []byte("BEGIN:VCALENDAR"),
		Contacts: make([]engine.ContactMilestone, 3),
	}, nil)

	pub := &recordingPublisher{}
	m := metrics.New(prometheus.NewRegistry())
	w := &worker.Worker{Syncer: syncer, Config: cfg, Publisher: pub, Metrics: m}

	ok := w.SyncOnce(context.Background())

	assert.True(t, ok)
	require.Equal(t, 1, pub.count())
	assert.Equal(t, "BEGIN:VCALENDAR", string(pub.feeds[0]))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Contacts))
	syncer.AssertExpectations(t)
}

func TestSyncOnce_KeepsOldFeedOnError(t *testing.T) {
	syncer := new(MockSyncer)
	syncer.On("RunSync", mock.Anything, mock.Anything).Return(engine.SyncResult{}, errors.New("offline"))

	pub := &recordingPublisher{}
	m := metrics.New(prometheus.NewRegistry())
	w := &worker.Worker{Syncer: syncer, Publisher: pub, Metrics: m}

	ok := w.SyncOnce(context.Background())

	assert.False(t, ok)
	assert.Equal(t, 0, pub.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SyncErrors))
}

func TestRun_NoIntervalSyncsOnce(t *testing.T) {
	syncer := new(MockSyncer)
	syncer.On("RunSync", mock.Anything, mock.Anything).Return(engine.SyncResult{ICS: []byte("x")}, nil)

	pub := &recordingPublisher{}
	w := &worker.Worker{Syncer: syncer, Publisher: pub}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return pub.count() == 1 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	syncer.AssertNumberOfCalls(t, "RunSync", 1)
}

func TestRun_TicksUntilCancelled(t *testing.T) {
	syncer := new(MockSyncer)
	syncer.On("RunSync", mock.Anything, mock.Anything).Return(engine.SyncResult{ICS: []byte("x")}, nil)

	pub := &recordingPublisher{}
	w := &worker.Worker{Syncer: syncer, Publisher: pub, Interval: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return pub.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
