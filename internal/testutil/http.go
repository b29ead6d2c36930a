package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerHeader is the trusted identity header the API reads. Tests set it
// directly; in deployment a fronting proxy does.
const OwnerHeader = "X-Owner-ID"

// NewJSONRequest creates an HTTP request carrying body as JSON. A nil body
// sends no payload.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

// WithOwner stamps the trusted owner header onto the request.
func WithOwner(r *http.Request, ownerID primitive.ObjectID) *http.Request {
	r.Header.Set(OwnerHeader, ownerID.Hex())
	return r
}

// DecodeJSON unmarshals the recorded response body into out.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rec.Body.String(), err)
	}
}

// AssertStatus checks the response status code.
func AssertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Errorf("status code: got %d, want %d (body: %s)", rec.Code, expected, rec.Body.String())
	}
}
