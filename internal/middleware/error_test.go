package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/recipes/backend/internal/logging"
	"github.com/pageza/recipes/backend/internal/service"
	"github.com/pageza/recipes/backend/internal/templates"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(templates.MustLoad())
	r.Use(RequestID(), ErrorHandler(logging.Discard()))
	r.NoRoute(NotFound)
	return r
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantBody   string
	}{
		{
			name: "not found error",
			handler: func(c *gin.Context) {
				_ = c.Error(service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "<h1>Not Found</h1>",
		},
		{
			name: "wrapped not found error",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.Join(errors.New("lookup"), service.ErrNotFound))
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "<h1>Not Found</h1>",
		},
		{
			name: "other error",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("connection refused"))
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "<h1>Server Error</h1>",
		},
		{
			name: "panic",
			handler: func(c *gin.Context) {
				panic("boom")
			},
			wantStatus: http.StatusInternalServerError,
			wantBody:   "<h1>Server Error</h1>",
		},
		{
			name: "response already written",
			handler: func(c *gin.Context) {
				c.String(http.StatusOK, "ok")
				_ = c.Error(errors.New("late failure"))
			},
			wantStatus: http.StatusOK,
			wantBody:   "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestEngine()
			r.GET("/", tt.handler)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestServerErrorPageShowsRequestID(t *testing.T) {
	r := newTestEngine()
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "request abc-123")
}

func TestNotFound(t *testing.T) {
	r := newTestEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nowhere/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "<title>Not Found | Recipes</title>")
}
