package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samirrijal/siara/internal/adapters/nominatim"
	"github.com/samirrijal/siara/internal/core/domain"
)

func newServer(t *testing.T, h http.HandlerFunc) *nominatim.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return nominatim.New(srv.URL, "siara_test", 2*time.Second)
}

func TestForward_Found(t *testing.T) {
	var gotQuery, gotUA string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search", r.URL.Path)
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.UserAgent()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"-23.5505","lon":"-46.6333","display_name":"São Paulo"}]`))
	})

	p, found, err := c.Forward(context.Background(), "Praça da Sé, São Paulo")
	require.NoError(t, err)
	require.True(t, found)
	require.InDelta(t, -23.5505, p.Lat, 1e-9)
	require.InDelta(t, -46.6333, p.Lon, 1e-9)
	require.Equal(t, "Praça da Sé, São Paulo", gotQuery)
	require.Equal(t, "siara_test", gotUA)
}

func TestForward_NoMatch(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, found, err := c.Forward(context.Background(), "nowhere at all")
	require.NoError(t, err)
	require.False(t, found)
}

func TestForward_ServerError(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, _, err := c.Forward(context.Background(), "x")
	require.ErrorContains(t, err, "429")
}

func TestForward_InvalidJSON(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":`))
	})

	_, _, err := c.Forward(context.Background(), "x")
	require.Error(t, err)
}

func TestReverse(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/reverse", r.URL.Path)
		require.Equal(t, "-23.55", r.URL.Query().Get("lat"))
		require.Equal(t, "-46.63", r.URL.Query().Get("lon"))
		w.Write([]byte(`{"display_name":"Sé, São Paulo, Brasil"}`))
	})

	addr, found, err := c.Reverse(context.Background(), domain.GeoPoint{Lat: -23.55, Lon: -46.63})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "Sé, São Paulo, Brasil", addr)
}

func TestReverse_UnableToGeocode(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	})

	_, found, err := c.Reverse(context.Background(), domain.GeoPoint{Lat: 0, Lon: -30})
	require.NoError(t, err)
	require.False(t, found)
}

func TestCanceledContext(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := c.Forward(ctx, "x")
	require.ErrorIs(t, err, context.Canceled)
}
