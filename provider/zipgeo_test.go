package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zippopotamStub(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/us/10001" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{
			"post code": "10001",
			"places": [{"place name": "New York", "latitude": "40.7484", "longitude": "-73.9967"}]
		}`))
	}))
}

func newTestZipGeo(srv *httptest.Server) *ZipGeo {
	return &ZipGeo{BaseURL: srv.URL, Client: srv.Client(), Timeout: 2 * time.Second}
}

func TestZipToGeoParsesStringCoordinates(t *testing.T) {
	srv := zippopotamStub(t)
	defer srv.Close()

	geo, err := newTestZipGeo(srv).ZipToGeo(context.Background(), "10001")
	require.NoError(t, err)
	require.NotNil(t, geo)
	assert.InDelta(t, 40.7484, geo.Latitude, 1e-9)
	assert.InDelta(t, -73.9967, geo.Longitude, 1e-9)
}

func TestZipToGeoUnknownZipIsNilNil(t *testing.T) {
	srv := zippopotamStub(t)
	defer srv.Close()

	geo, err := newTestZipGeo(srv).ZipToGeo(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, geo)
}

func TestZipToGeoTimeoutIsNilNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	z := &ZipGeo{BaseURL: srv.URL, Client: srv.Client(), Timeout: 50 * time.Millisecond}
	geo, err := z.ZipToGeo(context.Background(), "10001")
	require.NoError(t, err)
	assert.Nil(t, geo)
}

func TestZipToBBoxPlanarMath(t *testing.T) {
	srv := zippopotamStub(t)
	defer srv.Close()

	box, err := newTestZipGeo(srv).ZipToBBox(context.Background(), "10001", 5)
	require.NoError(t, err)
	require.NotNil(t, box)

	// dLat = 5/69, dLon = 5/(69*cos(40.7484 deg))
	assert.InDelta(t, 40.7484-5.0/69.0, box.South, 1e-6)
	assert.InDelta(t, 40.7484+5.0/69.0, box.North, 1e-6)
	assert.InDelta(t, -73.9967-0.095625, box.West, 1e-3)
	assert.InDelta(t, -73.9967+0.095625, box.East, 1e-3)

	assert.Less(t, box.West, box.East)
	assert.Less(t, box.South, box.North)
}

func TestZipToBBoxClampsRadius(t *testing.T) {
	srv := zippopotamStub(t)
	defer srv.Close()

	z := newTestZipGeo(srv)
	clamped, err := z.ZipToBBox(context.Background(), "10001", 1e6)
	require.NoError(t, err)
	atMax, err := z.ZipToBBox(context.Background(), "10001", 20)
	require.NoError(t, err)

	assert.InDelta(t, atMax.West, clamped.West, 1e-9)
	assert.InDelta(t, atMax.North, clamped.North, 1e-9)
}

func TestZipToBBoxDefaultRadius(t *testing.T) {
	srv := zippopotamStub(t)
	defer srv.Close()

	z := newTestZipGeo(srv)
	defaulted, err := z.ZipToBBox(context.Background(), "10001", 0)
	require.NoError(t, err)
	five, err := z.ZipToBBox(context.Background(), "10001", 5)
	require.NoError(t, err)

	assert.InDelta(t, five.South, defaulted.South, 1e-9)
	assert.InDelta(t, five.East, defaulted.East, 1e-9)
}
