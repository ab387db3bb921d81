package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stakeholder_map_backend/internal/maps"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeocoderAdapterPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"lat": "52.27", "lon": "8.05", "display_name": "Osnabrück"},
			{"lat": "52.0", "lon": "8.0", "display_name": "Landkreis Osnabrück"},
		})
	}))
	t.Cleanup(srv.Close)

	svc := maps.NewService(maps.Options{BaseURL: srv.URL, RatePerSecond: 100, Timeout: time.Second}, nil)
	got, err := NewGeocoderAdapter(svc).Geocode(context.Background(), "Osnabrück")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Osnabrück", got[0].DisplayName)
	assert.Equal(t, "8.05", got[0].Lon)
	assert.Equal(t, "Landkreis Osnabrück", got[1].DisplayName)
}
