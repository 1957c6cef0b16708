package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salespilot/services/chat-api/internal/interfaces/httpserver/middlewares"
)

func newRequestIDRouter(captured *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middlewares.RequestID())
	engine.GET("/", func(c *gin.Context) {
		*captured = middlewares.RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRequestID_MintsWhenMissing(t *testing.T) {
	var got string
	router := newRequestIDRouter(&got)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("context id %q is not a UUID: %v", got, err)
	}
	if rec.Header().Get("X-Request-Id") != got {
		t.Errorf("response header %q does not echo the assigned id %q", rec.Header().Get("X-Request-Id"), got)
	}
}

func TestRequestID_HonorsValidCallerID(t *testing.T) {
	var got string
	router := newRequestIDRouter(&got)

	supplied := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", supplied)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got != supplied {
		t.Errorf("id = %q, want the caller-supplied %q", got, supplied)
	}
}

func TestRequestID_ReplacesJunkCallerID(t *testing.T) {
	var got string
	router := newRequestIDRouter(&got)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "not a uuid\n")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got == "not a uuid\n" || got == "" {
		t.Errorf("junk id must be replaced, got %q", got)
	}
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("replacement %q is not a UUID: %v", got, err)
	}
}
