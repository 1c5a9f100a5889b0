package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverse_ExtractsAdministrativeRegions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte(`{"address":{"city":"Yonkers","county":"Westchester County","state":"New York","country":"United States"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-agent", 5*time.Second)
	loc, err := c.Reverse(context.Background(), 40.93, -73.89)

	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "New York", loc.State)
	assert.Equal(t, "Westchester County", loc.County)
	assert.Equal(t, "Yonkers", loc.City)
}

func TestReverse_CountyPriorityFallsBackToStateDistrict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"state_district":"Western New York","state":"New York","town":"Hamburg"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	loc, err := c.Reverse(context.Background(), 42.7, -78.8)

	require.NoError(t, err)
	assert.Equal(t, "Western New York", loc.County)
	assert.Equal(t, "Hamburg", loc.City)
}

func TestReverse_NoAddressReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	loc, err := c.Reverse(context.Background(), 0, 0)

	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestReverse_ServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.Reverse(context.Background(), 40.9, -73.9)
	assert.Error(t, err)
}
