package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func (j *countingJob) Name() string { return j.name }

func TestEvery_ReturnsDistinctHandles(t *testing.T) {
	s := New(zerolog.Nop())

	h1, err := s.Every(time.Minute, &countingJob{name: "a"})
	require.NoError(t, err)
	h2, err := s.Every(time.Minute, &countingJob{name: "b"})
	require.NoError(t, err)

	assert.NotEmpty(t, h1)
	assert.NotEmpty(t, h2)
	assert.NotEqual(t, h1, h2)
}

func TestCancel_IsIdempotent(t *testing.T) {
	s := New(zerolog.Nop())

	handle, err := s.Every(time.Minute, &countingJob{name: "a"})
	require.NoError(t, err)

	s.Cancel(handle)
	s.Cancel(handle)          // second cancel is a no-op
	s.Cancel("missing-handle") // unknown handles too
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())

	job := &countingJob{name: "a"}
	require.NoError(t, s.RunNow(job))
	assert.Equal(t, int64(1), job.runs.Load())

	failing := &countingJob{name: "b", err: errors.New("boom")}
	assert.Error(t, s.RunNow(failing))
}

func TestScheduler_RunsJobsOnInterval(t *testing.T) {
	s := New(zerolog.Nop())

	job := &countingJob{name: "tick"}
	_, err := s.Every(time.Second, job)
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}
