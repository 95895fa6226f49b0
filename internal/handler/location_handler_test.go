package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"location-presence-service/internal/handler"
	"location-presence-service/internal/registry"
)

func postUpdate(t *testing.T, h *handler.LocationHandler, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/api/update-location", bytes.NewBuffer(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	h.UpdateLocation(c)
	return w
}

func TestLocationHandler_UpdateLocation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		requestBody    map[string]any
		expectedStatus int
		validate       func(*testing.T, *registry.Registry, *httptest.ResponseRecorder)
	}{
		{
			name: "success - auto-registers unknown group and user",
			requestBody: map[string]any{
				"userId":    "alice",
				"groupName": "friends",
				"lat":       37.5665,
				"lng":       126.9780,
				"speed":     5.5,
				"heading":   90.0,
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, reg *registry.Registry, w *httptest.ResponseRecorder) {
				var resp handler.AckResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.True(t, resp.OK)
				assert.Empty(t, resp.Error)

				m, ok := reg.Member("friends", "alice")
				require.True(t, ok)
				require.NotNil(t, m.Lat)
				assert.InDelta(t, 37.5665, *m.Lat, 1e-9)
				require.NotNil(t, m.Speed)
				assert.InDelta(t, 5.5, *m.Speed, 1e-9)
				assert.True(t, m.Connected)
			},
		},
		{
			name: "success - zero coordinates are valid",
			requestBody: map[string]any{
				"userId":    "alice",
				"groupName": "friends",
				"lat":       0.0,
				"lng":       0.0,
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, reg *registry.Registry, w *httptest.ResponseRecorder) {
				m, ok := reg.Member("friends", "alice")
				require.True(t, ok)
				require.NotNil(t, m.Lat)
				assert.Zero(t, *m.Lat)
				assert.Nil(t, m.Speed, "speed stays absent when not sent")
			},
		},
		{
			name: "error - missing userId and groupName",
			requestBody: map[string]any{
				"lat": 0.0,
				"lng": 0.0,
			},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, reg *registry.Registry, w *httptest.ResponseRecorder) {
				var resp handler.AckResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.False(t, resp.OK)
				assert.NotEmpty(t, resp.Error)
				assert.Empty(t, reg.Snapshot(), "rejected requests mutate nothing")
			},
		},
		{
			name: "error - missing lat",
			requestBody: map[string]any{
				"userId":    "alice",
				"groupName": "friends",
				"lng":       126.9780,
			},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, reg *registry.Registry, w *httptest.ResponseRecorder) {
				assert.Empty(t, reg.Snapshot())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.New()
			h := handler.NewLocationHandler(reg)

			w := postUpdate(t, h, tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.validate(t, reg, w)
		})
	}
}

func TestStatusHandler_GetStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reg := registry.New()
	locations := handler.NewLocationHandler(reg)
	status := handler.NewStatusHandler(reg)

	// round-trip: a valid stateless update creates group and member...
	w := postUpdate(t, locations, map[string]any{
		"userId":    "alice",
		"groupName": "fresh",
		"lat":       37.5,
		"lng":       127.0,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// ...and the status snapshot reflects it
	req, err := http.NewRequest(http.MethodGet, "/api/status", nil)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	status.GetStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Contains(t, resp.Groups, "fresh")
	assert.Equal(t, 1, resp.Groups["fresh"].MemberCount)
	assert.Equal(t, []string{"alice"}, resp.Groups["fresh"].Members)
}

func TestStatusHandler_EmptyRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	status := handler.NewStatusHandler(registry.New())

	req, err := http.NewRequest(http.MethodGet, "/api/status", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	status.GetStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp handler.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Empty(t, resp.Groups)
}
