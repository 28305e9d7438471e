package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/places-microservice/internal/config"
	"github.com/places-microservice/internal/domain"
	"github.com/places-microservice/internal/domain/repository"
	apperrors "github.com/places-microservice/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testBox() domain.BoundingBox {
	return domain.BoundingBox{South: 55.73778, West: 37.58528, North: 55.77382, East: 37.64932}
}

func newTestClient(t *testing.T, baseURL string, maxRetries int) repository.OverpassRepository {
	t.Helper()
	catalog, err := NewQueryCatalog("")
	require.NoError(t, err)

	cfg := &config.OverpassConfig{
		BaseURL:        baseURL,
		TimeoutSeconds: 5,
		QueryType:      "full",
		MaxRetries:     maxRetries,
		RetryDelay:     5 * time.Millisecond,
	}
	return NewOverpassClient(cfg, catalog, zap.NewNop())
}

func TestClient_Fetch(t *testing.T) {
	t.Run("successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			query := r.PostFormValue("data")
			assert.Contains(t, query, "[out:json]")
			assert.Contains(t, query, "55.737780,37.585280,55.773820,37.649320")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"elements": [
					{"type": "node", "id": 101, "lat": 55.75, "lon": 37.61, "tags": {"amenity": "cafe", "name": "Кофейня"}},
					{"type": "way", "id": 202, "geometry": [{"lat": 55.74, "lon": 37.59}, {"lat": 55.75, "lon": 37.60}], "tags": {"highway": "footway"}}
				]
			}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, 0)

		elements, err := client.Fetch(context.Background(), testBox(), "full")
		require.NoError(t, err)
		require.Len(t, elements, 2)

		assert.Equal(t, domain.OSMNode, elements[0].Type)
		assert.Equal(t, int64(101), elements[0].ID)
		require.NotNil(t, elements[0].Lat)
		assert.Equal(t, 55.75, *elements[0].Lat)
		assert.Equal(t, "Кофейня", elements[0].DisplayName())

		assert.Equal(t, domain.OSMWay, elements[1].Type)
		assert.Len(t, elements[1].Geometry, 2)
	})

	t.Run("unknown query type fails without request", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, 3)

		_, err := client.Fetch(context.Background(), testBox(), "everything")
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrInvalidQueryType.Code, appErr.Code)
		assert.Equal(t, int32(0), hits.Load())
	})

	t.Run("invalid bbox", func(t *testing.T) {
		client := newTestClient(t, "http://localhost:1", 0)

		_, err := client.Fetch(context.Background(), domain.BoundingBox{South: 2, West: 1, North: 1, East: 2}, "full")
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrInvalidBoundingBox.Code, appErr.Code)
	})

	t.Run("retries on 429 then succeeds", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) <= 2 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			w.Write([]byte(`{"elements": [{"type": "node", "id": 1, "lat": 55.75, "lon": 37.61}]}`))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, 3)

		elements, err := client.Fetch(context.Background(), testBox(), "minimal")
		require.NoError(t, err)
		assert.Len(t, elements, 1)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, 2)

		_, err := client.Fetch(context.Background(), testBox(), "full")
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUpstreamUnavailable.Code, appErr.Code)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("no retry on 400", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("parse error"))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, 3)

		_, err := client.Fetch(context.Background(), testBox(), "full")
		require.Error(t, err)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("malformed JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<!doctype html>"))
		}))
		defer server.Close()

		client := newTestClient(t, server.URL, 0)

		_, err := client.Fetch(context.Background(), testBox(), "full")
		require.Error(t, err)
		appErr, ok := err.(*apperrors.AppError)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrUpstreamUnavailable.Code, appErr.Code)
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		catalog, err := NewQueryCatalog("")
		require.NoError(t, err)
		cfg := &config.OverpassConfig{
			BaseURL:        server.URL,
			TimeoutSeconds: 5,
			MaxRetries:     5,
			RetryDelay:     time.Second,
		}
		client := NewOverpassClient(cfg, catalog, zap.NewNop())

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err = client.Fetch(ctx, testBox(), "full")
		require.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestClient_QueryTypes(t *testing.T) {
	client := newTestClient(t, "http://localhost:1", 0)
	assert.Contains(t, client.QueryTypes(), "full")
	assert.Contains(t, client.QueryTypes(), "minimal")
}
