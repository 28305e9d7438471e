package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/places-microservice/internal/config"
	"github.com/places-microservice/internal/domain"
	"github.com/places-microservice/internal/domain/repository"
	apperrors "github.com/places-microservice/internal/pkg/errors"
	"go.uber.org/zap"
)

// Коды ответа Overpass, после которых имеет смысл повторить запрос
var retryableStatusCodes = map[int]bool{
	http.StatusTooManyRequests:    true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

type client struct {
	httpClient     *http.Client
	baseURL        string
	catalog        *QueryCatalog
	timeoutSeconds int
	maxRetries     int
	retryDelay     time.Duration
	logger         *zap.Logger
}

// NewOverpassClient создает новый клиент для Overpass API
func NewOverpassClient(cfg *config.OverpassConfig, catalog *QueryCatalog, logger *zap.Logger) repository.OverpassRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds+10) * time.Second,
		},
		baseURL:        cfg.BaseURL,
		catalog:        catalog,
		timeoutSeconds: cfg.TimeoutSeconds,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
		logger:         logger,
	}
}

type overpassResponse struct {
	Elements []domain.OSMElement `json:"elements"`
}

// Fetch запрашивает сырые элементы OSM для bbox с retry логикой
func (c *client) Fetch(ctx context.Context, box domain.BoundingBox, queryType string) ([]domain.OSMElement, error) {
	if !box.Valid() {
		return nil, apperrors.ErrInvalidBoundingBox
	}

	query, err := c.catalog.Render(queryType, box, c.timeoutSeconds)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Calling Overpass API",
		zap.String("query_type", queryType),
		zap.Float64("south", box.South),
		zap.Float64("west", box.West),
		zap.Float64("north", box.North),
		zap.Float64("east", box.East))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Экспоненциальная задержка перед повторной попыткой
			delay := c.retryDelay * (1 << (attempt - 1))
			c.logger.Warn("Retrying Overpass request",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", c.maxRetries),
				zap.Duration("delay", delay))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		elements, retryable, err := c.doRequest(ctx, query)
		if err == nil {
			c.logger.Info("Overpass returned elements", zap.Int("count", len(elements)))
			return elements, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	c.logger.Error("Overpass request failed", zap.Error(lastErr))
	return nil, apperrors.ErrUpstreamUnavailable.WithDetails(map[string]interface{}{
		"error": lastErr.Error(),
	})
}

// QueryTypes возвращает список известных типов запросов
func (c *client) QueryTypes() []string {
	return c.catalog.Types()
}

func (c *client) doRequest(ctx context.Context, query string) ([]domain.OSMElement, bool, error) {
	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		// Сетевые ошибки считаем временными
		return nil, true, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("overpass API error: status %d, body: %s", resp.StatusCode, string(body))
		if retryableStatusCodes[resp.StatusCode] {
			c.logger.Warn("Overpass returned retryable status",
				zap.Int("status_code", resp.StatusCode))
			return nil, true, err
		}
		c.logger.Error("Overpass returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return nil, false, err
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	return parsed.Elements, false, nil
}
