package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cause := errors.New("boom")
	h := http.Header{}
	h.Set("Retry-After", "7")

	rl := classify(http.StatusTooManyRequests, h, cause)
	assert.Equal(t, RateLimited, rl.Kind)
	assert.Equal(t, 7*time.Second, rl.RetryAfter)
	assert.ErrorIs(t, rl, cause)

	assert.Equal(t, Rejected, classify(http.StatusUnauthorized, nil, cause).Kind)
	assert.Equal(t, Rejected, classify(http.StatusNotFound, nil, cause).Kind)
	assert.Equal(t, Unavailable, classify(http.StatusBadGateway, nil, cause).Kind)
	assert.Equal(t, Unavailable, classify(0, nil, cause).Kind)
	assert.Zero(t, classify(http.StatusTooManyRequests, nil, cause).RetryAfter)
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("quiz explanation: %w", &Error{Kind: Truncated})
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, Truncated, kind)
	assert.Equal(t, "quiz explanation: llm: truncated reply", err.Error())

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)
}
