package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSanitizeRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SanitizeInput())
	router.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.Data(http.StatusOK, "application/json", body)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSanitizeStripsHTML(t *testing.T) {
	router := newSanitizeRouter()

	w := postJSON(router, `{"bio": "<script>alert(1)</script>hello", "name": "<b>bold</b> plain"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "hello", body["bio"])
	assert.Equal(t, "bold plain", body["name"])
}

func TestSanitizeLeavesPlainTextAlone(t *testing.T) {
	router := newSanitizeRouter()

	w := postJSON(router, `{"reason": "repeated spam in review comments"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "repeated spam in review comments", body["reason"])
}

func TestSanitizeIgnoresNonStringFields(t *testing.T) {
	router := newSanitizeRouter()

	w := postJSON(router, `{"score": 8, "tags": ["a", "b"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(8), body["score"])
}

func TestSanitizeRejectsMalformedJSON(t *testing.T) {
	router := newSanitizeRouter()

	w := postJSON(router, `{"broken":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSanitizeSkipsReads(t *testing.T) {
	router := newSanitizeRouter()
	router.GET("/read", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
