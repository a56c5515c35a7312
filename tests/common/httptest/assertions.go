//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String()))
	}
}

func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d", expectedStatus, w.Code))

	var errorResponse struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))

	if expectedErrorMsg != "" {
		assert.Contains(t, errorResponse.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
}

// AssertDecline checks a booking admission that was declined: the transport
// status stays 200 and the body carries ok=false with the given code.
func AssertDecline(t *testing.T, w *httptest.ResponseRecorder, expectedCode, expectedErrorMsg string) {
	t.Helper()

	if !assert.Equal(t, 200, w.Code, "declines are reported with status 200: %s", w.Body.String()) {
		return
	}

	var body struct {
		OK        bool   `json:"ok"`
		BookingID *int64 `json:"bookingId"`
		Error     string `json:"error"`
		Code      string `json:"code"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode admission JSON: %s", w.Body.String()))

	assert.False(t, body.OK)
	assert.Nil(t, body.BookingID)
	assert.Equal(t, expectedCode, body.Code)
	if expectedErrorMsg != "" {
		assert.Equal(t, expectedErrorMsg, body.Error)
	}
}
