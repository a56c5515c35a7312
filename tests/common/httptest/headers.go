//go:build unit || e2e

package httptest

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertHeaders checks response headers. An empty expected value only
// requires the header to be present, for generated values such as ids.
func AssertHeaders(t *testing.T, w *httptest.ResponseRecorder, expected map[string]string) {
	t.Helper()
	for k, v := range expected {
		got := w.Header().Get(k)
		if v == "" {
			assert.NotEmpty(t, got, "header %s missing", k)
			continue
		}
		assert.Equal(t, v, got, "header %s mismatch", k)
	}
}
