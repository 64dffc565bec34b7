package httpresponse

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteResponseWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponseWithStatus(rec, http.StatusCreated, map[string]string{"id": "1"})

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	var resp Response[map[string]string]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != http.StatusCreated || resp.Body["id"] != "1" {
		t.Errorf("unexpected response %+v", resp)
	}
}

func TestWriteResponseMarshalFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteResponseWithStatus(rec, http.StatusOK, make(chan int))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	var resp Response[ErrorResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("internal error body is not JSON: %v", err)
	}
}

func TestWriteErrorWithStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteErrorWithStatus(rec, http.StatusNotFound, "nope")
	var resp Response[ErrorResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusNotFound || resp.Body.ErrorDescription != "nope" {
		t.Errorf("unexpected response %d %+v", rec.Code, resp)
	}
}

func TestWriteResponseOmitsNilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	var body *ErrorResponse
	WriteResponseWithStatus(rec, http.StatusOK, body)
	if got := rec.Body.String(); got != `{"Status":200}` {
		t.Errorf("unexpected body %s", got)
	}
}
