package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soujanyavullam/epic-web-app/internal/apperror"
	"github.com/soujanyavullam/epic-web-app/internal/pkg/logger"
)

// scriptedProvider returns each queued response in order.
type scriptedProvider struct {
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	vec []float64
	err error
}

func (s *scriptedProvider) Embed(ctx context.Context, text string) ([]float64, error) {
	res := s.responses[s.calls]
	s.calls++
	return res.vec, res.err
}

func goodVector() []float64 {
	return make([]float64, Dimension)
}

func transientErr() error {
	return apperror.New(apperror.KindTransientUpstream, "embedding.test", "throttled")
}

func permanentErr() error {
	return apperror.New(apperror.KindPermanentUpstream, "embedding.test", "bad credentials")
}

func newTestRetrying(inner Provider) *Retrying {
	r := NewRetrying(inner, logger.NewNopLogger())
	r.BaseDelay = time.Millisecond
	return r
}

func TestRetryingSucceedsOnThirdAttempt(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{err: transientErr()},
		{err: transientErr()},
		{vec: goodVector()},
	}}

	vec, err := newTestRetrying(provider).Embed(context.Background(), "some text")

	require.NoError(t, err)
	assert.Len(t, vec, Dimension)
	assert.Equal(t, 3, provider.calls)
}

func TestRetryingExhaustionSurfacesPermanent(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{err: transientErr()},
		{err: transientErr()},
		{err: transientErr()},
	}}

	_, err := newTestRetrying(provider).Embed(context.Background(), "some text")

	require.Error(t, err)
	assert.Equal(t, apperror.KindPermanentUpstream, apperror.KindOf(err))
	assert.Equal(t, 3, provider.calls)
}

func TestRetryingPermanentFailureNotRetried(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{err: permanentErr()},
	}}

	_, err := newTestRetrying(provider).Embed(context.Background(), "some text")

	require.Error(t, err)
	assert.Equal(t, apperror.KindPermanentUpstream, apperror.KindOf(err))
	assert.Equal(t, 1, provider.calls)
}

func TestRetryingDimensionMismatchIsPermanent(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{vec: make([]float64, 768)},
	}}

	_, err := newTestRetrying(provider).Embed(context.Background(), "some text")

	require.Error(t, err)
	assert.Equal(t, apperror.KindPermanentUpstream, apperror.KindOf(err))
	assert.Equal(t, 1, provider.calls, "dimension mismatch must not be retried")
}

func TestRetryingHonorsCancellation(t *testing.T) {
	provider := &scriptedProvider{responses: []scriptedResponse{
		{err: transientErr()},
		{vec: goodVector()},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRetrying(provider, logger.NewNopLogger())
	r.BaseDelay = time.Minute // would block without cancellation

	_, err := r.Embed(ctx, "some text")

	require.Error(t, err)
	assert.Equal(t, 1, provider.calls)
}
