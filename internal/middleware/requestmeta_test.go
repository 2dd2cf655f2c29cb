package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"studynotes/internal/requestctx"
)

func TestRequestMetaClientIP(t *testing.T) {
	cases := []struct {
		name       string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"direct connection", "", "203.0.113.9:51234", "203.0.113.9"},
		{"single forwarded hop", "198.51.100.1", "10.0.0.2:80", "198.51.100.1"},
		{"proxy chain keeps the original client", "198.51.100.1, 10.0.0.2, 10.0.0.3", "10.0.0.3:80", "198.51.100.1"},
		{"unparseable remote addr passed through", "", "bad-addr", "bad-addr"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got string
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = requestctx.Client(r.Context()).IPAddress
			})

			r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
			r.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}

			RequestMeta()(inner).ServeHTTP(httptest.NewRecorder(), r)

			if got != tc.want {
				t.Errorf("client ip = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRequestMetaCorrelation(t *testing.T) {
	t.Run("echoes the caller's id", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

		r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		r.Header.Set(CorrelationHeader, "corr-123")
		w := httptest.NewRecorder()

		RequestMeta()(inner).ServeHTTP(w, r)

		if got := w.Header().Get(CorrelationHeader); got != "corr-123" {
			t.Errorf("echoed correlation id = %q, want corr-123", got)
		}
	})

	t.Run("generates one when the caller sends none", func(t *testing.T) {
		var inContext string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inContext, _ = requestctx.CorrelationID(r.Context())
		})

		r := httptest.NewRequest(http.MethodGet, "/api/notes", nil)
		w := httptest.NewRecorder()

		RequestMeta()(inner).ServeHTTP(w, r)

		echoed := w.Header().Get(CorrelationHeader)
		if echoed == "" {
			t.Fatal("expected a generated correlation id on the response")
		}
		if inContext != echoed {
			t.Errorf("context id %q does not match echoed id %q", inContext, echoed)
		}
	})
}

func TestRecovery(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("turns a panic into a 500", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		Recovery(logger)(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/notes", nil))

		if w.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", w.Code)
		}
	})

	t.Run("passes healthy requests through", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})

		w := httptest.NewRecorder()
		Recovery(logger)(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", w.Code)
		}
	})

	t.Run("lets the server's abort sentinel escape", func(t *testing.T) {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})

		defer func() {
			if recover() != http.ErrAbortHandler {
				t.Error("expected http.ErrAbortHandler to propagate")
			}
		}()
		Recovery(logger)(inner).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/notes", nil))
	})
}
