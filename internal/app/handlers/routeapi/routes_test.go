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

func TestRoutes_RejectsUnknownTransportationMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"latitude":10.77,"longitude":106.70,"transportation_mode":"JETPACK","semantic_query":"museum"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/route/routes", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	Routes(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown transportation_mode")
}

func TestRoutes_RejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/api/v1/route/routes", bytes.NewBufferString(`not json`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	Routes(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReplacePOI_RejectsMalformedPoiID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"user_id":"u1","poi_id_to_replace":"not-a-uuid"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/route/replace-poi", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	ReplacePOI(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "malformed poi_id_to_replace")
}

func TestConfirmReplacePOI_RejectsMalformedOldPoiID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"user_id":"u1","old_poi_id":"bad","new_poi_id":"11111111-1111-1111-1111-111111111111"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/route/confirm-replace-poi", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	ConfirmReplacePOI(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "malformed old_poi_id")
}

func TestConfirmReplacePOI_RejectsMalformedNewPoiID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"user_id":"u1","old_poi_id":"11111111-1111-1111-1111-111111111111","new_poi_id":"bad"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/route/confirm-replace-poi", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	ConfirmReplacePOI(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "malformed new_poi_id")
}
