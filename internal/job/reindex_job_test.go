package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"course-search-service/internal/app/service"
	"course-search-service/pkg/locker"
)

type stubReindexer struct {
	calls   atomic.Int32
	block   chan struct{}
	started chan struct{}
	err     error
}

func (s *stubReindexer) Reindex(ctx context.Context) (*service.ReindexResult, error) {
	s.calls.Add(1)
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}

	return &service.ReindexResult{Source: "stub", Count: 3}, nil
}

func newTestLocker(t *testing.T) (*locker.RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return locker.NewRedisLocker(client, zap.NewNop()), mr
}

func TestReindexJob_RunNow(t *testing.T) {
	l, mr := newTestLocker(t)
	stub := &stubReindexer{}
	job := NewReindexJob(stub, ReindexConfig{Timeout: time.Minute}, l, zap.NewNop())

	result, err := job.RunNow(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)
	assert.False(t, mr.Exists(LockKey), "lock should be released after the run")
}

func TestReindexJob_RunNowReleasesLockOnFailure(t *testing.T) {
	l, mr := newTestLocker(t)
	boom := errors.New("boom")
	job := NewReindexJob(&stubReindexer{err: boom}, ReindexConfig{Timeout: time.Minute}, l, zap.NewNop())

	_, err := job.RunNow(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(LockKey))
}

func TestReindexJob_RunNowWhileRunning(t *testing.T) {
	l, _ := newTestLocker(t)
	stub := &stubReindexer{block: make(chan struct{}), started: make(chan struct{}, 1)}
	job := NewReindexJob(stub, ReindexConfig{Timeout: time.Minute}, l, zap.NewNop())

	done := make(chan error, 1)
	go func() {
		_, err := job.RunNow(context.Background())
		done <- err
	}()
	<-stub.started

	_, err := job.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrReindexInProgress)

	close(stub.block)
	assert.NoError(t, <-done)
	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestReindexJob_StartRunsOnStartup(t *testing.T) {
	l, _ := newTestLocker(t)
	stub := &stubReindexer{started: make(chan struct{}, 1)}
	job := NewReindexJob(stub, ReindexConfig{OnStartup: true, Timeout: time.Minute}, l, zap.NewNop())

	job.Start()
	select {
	case <-stub.started:
	case <-time.After(5 * time.Second):
		t.Fatal("startup reindex did not run")
	}
	job.Stop()

	assert.Equal(t, int32(1), stub.calls.Load())
}

func TestReindexJob_PeriodicRuns(t *testing.T) {
	l, _ := newTestLocker(t)
	stub := &stubReindexer{started: make(chan struct{}, 10)}
	job := NewReindexJob(stub, ReindexConfig{Interval: 20 * time.Millisecond, Timeout: time.Minute}, l, zap.NewNop())

	job.Start()
	for range 2 {
		select {
		case <-stub.started:
		case <-time.After(5 * time.Second):
			t.Fatal("periodic reindex did not run")
		}
	}
	job.Stop()

	assert.GreaterOrEqual(t, stub.calls.Load(), int32(2))
}

func TestReindexJob_StopWithoutStart(t *testing.T) {
	l, _ := newTestLocker(t)
	job := NewReindexJob(&stubReindexer{}, ReindexConfig{}, l, zap.NewNop())

	assert.NotPanics(t, job.Stop)
}
