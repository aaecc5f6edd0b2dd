package routeapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticSearch_RejectsMissingQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/api/v1/semantic/search", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	SemanticSearch(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSemanticCombined_RejectsUnknownTransportationMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"latitude":10.77,"longitude":106.70,"transportation_mode":"ROCKET","semantic_query":"quiet cafe"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/semantic/combined", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	SemanticCombined(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown transportation_mode")
}

func TestSemanticCombined_RejectsInvalidCurrentTime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"latitude":10.77,"longitude":106.70,"transportation_mode":"WALKING","semantic_query":"quiet cafe","current_time":"not-a-time"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/semantic/combined", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	SemanticCombined(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
