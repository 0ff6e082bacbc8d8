package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, map[string]int{"id": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if w.Body.String() != `{"id":1}` {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestJSON_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, nil)
	if w.Body.String() != "null" {
		t.Fatalf("expected null got %s", w.Body.String())
	}
}

func TestJSON_EncodeError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", w.Code)
	}
}

func TestJSONErrorMessage(t *testing.T) {
	w := httptest.NewRecorder()
	JSONErrorMessage(w, http.StatusNotFound, "not_found", "Not found", nil)
	want := `{"error":"not_found","message":"Not found"}`
	if w.Body.String() != want {
		t.Fatalf("got %s want %s", w.Body.String(), want)
	}
}

func TestText(t *testing.T) {
	w := httptest.NewRecorder()
	Text(w, http.StatusOK, "olá")
	if w.Header().Get("Content-Type") != "text/plain; charset=utf-8" || w.Body.String() != "olá" {
		t.Fatalf("unexpected response %q %q", w.Header().Get("Content-Type"), w.Body.String())
	}
}
