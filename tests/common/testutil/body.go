//go:build unit || e2e

package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// Edit changes one field of a request body in its JSON map form.
type Edit func(map[string]any)

// JSONBody renders v the way a client would send it, then applies edits so
// a test can drop a field or give it the wrong JSON type.
func JSONBody(t *testing.T, v any, edits ...Edit) map[string]any {
	t.Helper()

	b, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	for _, edit := range edits {
		edit(m)
	}
	return m
}

func Without(key string) Edit {
	return func(m map[string]any) { delete(m, key) }
}

func With(key string, value any) Edit {
	return func(m map[string]any) { m[key] = value }
}
