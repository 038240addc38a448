package requesttime

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"

	"sovereign/pkg/requestcontext"
)

func TestMiddlewareInjectsClockTime(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(at)

	var seen time.Time
	var ok bool
	h := Middleware(clock)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, ok = requestcontext.Time(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, ok)
	assert.Equal(t, at, seen)
}
