package processor_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/verifier/internal/domain"
	"github.com/jonesrussell/north-cloud/verifier/internal/processor"
)

type stubVerifier struct {
	calls    atomic.Int32
	inFlight atomic.Int32
	peak     atomic.Int32
	delay    time.Duration
}

func (s *stubVerifier) Verify(_ context.Context, req *domain.VerificationRequest) *domain.VerificationResult {
	s.calls.Add(1)
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(s.delay)
	s.inFlight.Add(-1)
	return &domain.VerificationResult{URL: req.URL}
}

func requests(n int) []*domain.VerificationRequest {
	out := make([]*domain.VerificationRequest, n)
	for i := range out {
		out[i] = &domain.VerificationRequest{URL: fmt.Sprintf("https://example.com/%d", i)}
	}
	return out
}

func TestProcess_PreservesOrder(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{delay: time.Millisecond}
	p := processor.NewBatchProcessor(v, 4, nil)

	reqs := requests(25)
	results, err := p.Process(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, results, 25)
	for i, r := range results {
		assert.Equal(t, reqs[i].URL, r.URL)
	}
	assert.Equal(t, int32(25), v.calls.Load())
}

func TestProcess_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	v := &stubVerifier{delay: 5 * time.Millisecond}
	p := processor.NewBatchProcessor(v, 3, nil)

	_, err := p.Process(context.Background(), requests(12))
	require.NoError(t, err)
	assert.LessOrEqual(t, v.peak.Load(), int32(3))
}

func TestProcess_Empty(t *testing.T) {
	t.Parallel()

	p := processor.NewBatchProcessor(&stubVerifier{}, 0, nil)
	results, err := p.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcess_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := &stubVerifier{}
	p := processor.NewBatchProcessor(v, 2, nil)
	_, err := p.Process(ctx, requests(5))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), v.calls.Load())
}
