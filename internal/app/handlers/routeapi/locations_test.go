package routeapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/loci-route/internal/pkg/config"
)

func testDeps() *Deps {
	return &Deps{
		Config: &config.Config{
			Transport: config.TransportConfig{
				Profiles: map[string]config.TransportProfile{
					"WALKING": {KRing: 2, SpeedKMH: 5},
				},
			},
		},
	}
}

func TestLocationsSearch_RejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/api/v1/locations/search", bytes.NewBufferString(`{"latitude":`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	LocationsSearch(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLocationsSearch_RejectsUnknownTransportationMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"latitude":10.77,"longitude":106.70,"transportation_mode":"TELEPORT"}`
	req, err := http.NewRequest(http.MethodPost, "/api/v1/locations/search", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	LocationsSearch(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown transportation_mode")
}

func TestLocationsSearch_RejectsMissingRequiredFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(http.MethodPost, "/api/v1/locations/search", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	LocationsSearch(testDeps())(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
