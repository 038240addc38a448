package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "sovereign/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error omits description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "internal_error" {
			t.Fatalf("expected error code internal_error, got %q", body["error"])
		}
		if _, ok := body["error_description"]; ok {
			t.Fatalf("expected error_description to be omitted for internal errors")
		}
	})

	t.Run("timing error includes description", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeTiming, "timelock active"))

		if w.Code != http.StatusTooEarly {
			t.Fatalf("expected status %d, got %d", http.StatusTooEarly, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != "timing_error" {
			t.Fatalf("expected error code timing_error, got %q", body["error"])
		}
		if body["error_description"] != "timelock active" {
			t.Fatalf("expected error_description to be returned for timing errors")
		}
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeState:        http.StatusConflict,
		dErrors.CodeValidation:   http.StatusUnprocessableEntity,
		dErrors.CodeUnauthorized: http.StatusForbidden,
		dErrors.CodeArithmetic:   http.StatusUnprocessableEntity,
		dErrors.CodeExternalCall: http.StatusBadGateway,
		dErrors.CodeNotFound:     http.StatusNotFound,
		dErrors.CodeInvalidInput: http.StatusBadRequest,
	}
	for code, want := range cases {
		if got := StatusFor(code); got != want {
			t.Errorf("StatusFor(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Amount uint64 `json:"amount"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":5,"extra":1}`))
	if err := DecodeJSON(r, &v); !dErrors.HasCode(err, dErrors.CodeBadRequest) {
		t.Fatalf("expected bad_request for unknown field, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":5}`))
	if err := DecodeJSON(r, &v); err != nil || v.Amount != 5 {
		t.Fatalf("expected amount 5, got %d (%v)", v.Amount, err)
	}
}
