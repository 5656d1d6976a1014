package attom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(100))
}

func TestPropertyDetail(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/property/detail", r.URL.Path)
		assert.Equal(t, "123 Main St, Los Angeles, CA", r.URL.Query().Get("address1"))
		assert.Equal(t, "test-key", r.Header.Get("APIKey"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"property":[{"address":{"city":"Los Angeles","zipcode":"90012"},
			"building":{"size":{"buildingsqft":9100},"yearBuilt":1988,"units":16},
			"sale":{"price":{"saleamt":3100000}}}]}`))
	})

	resp, err := client.PropertyDetail(context.Background(), "123 Main St, Los Angeles, CA")
	require.NoError(t, err)
	require.Len(t, resp.Property, 1)

	p := resp.Property[0]
	require.NotNil(t, p.Address)
	assert.Equal(t, "90012", *p.Address.Zipcode)
	assert.Equal(t, 1988, *p.Building.YearBuilt)
	assert.Equal(t, 9100.0, *p.Building.Size.BuildingSqft)
	assert.Equal(t, 3100000.0, *p.Sale.Price.SaleAmount)
	assert.Nil(t, p.Rental)
}

func TestPropertyDetail_NoRecord(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"property":[]}`))
	})

	_, err := client.PropertyDetail(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoProperty)
}

func TestGet_APIError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	})

	_, err := client.Assessment(context.Background(), "anywhere")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "/assessment/detail", apiErr.Endpoint)
	assert.Equal(t, "invalid api key", apiErr.Message)
}

func TestGet_MalformedBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"trend":`))
	})

	_, err := client.SalesTrend(context.Background(), "90210")
	assert.Error(t, err)
}

func TestSalesTrend(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/salestrend/detail", r.URL.Path)
		assert.Equal(t, "90210", r.URL.Query().Get("zipcode"))
		w.Write([]byte(`{"trend":{"appreciation":5.5}}`))
	})

	resp, err := client.SalesTrend(context.Background(), "90210")
	require.NoError(t, err)
	require.NotNil(t, resp.Trend)
	assert.Equal(t, 5.5, *resp.Trend.Appreciation)
}

func TestGet_CancelledContext(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SalesTrend(ctx, "90210")
	assert.Error(t, err)
}
