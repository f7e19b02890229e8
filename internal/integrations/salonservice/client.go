package salonservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с SalonService (салоны, мастера, каталог услуг)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента SalonService.
// Исходящие запросы инструментированы otelhttp: trace context передаётся в заголовках.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// GetTenant получает салон с часовым поясом и рабочими часами
func (c *Client) GetTenant(ctx context.Context, tenantID int64) (*domain.Tenant, error) {
	url := fmt.Sprintf("%s/internal/tenants/%d", c.baseURL, tenantID)

	var tenant Tenant
	if err := c.get(ctx, url, ErrTenantNotFound, &tenant); err != nil {
		return nil, err
	}

	result, err := tenant.toDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return result, nil
}

// ListStaff получает всех мастеров салона, включая неактивных
func (c *Client) ListStaff(ctx context.Context, tenantID int64) ([]*domain.StaffMember, error) {
	url := fmt.Sprintf("%s/internal/tenants/%d/staff", c.baseURL, tenantID)

	var staff []StaffMember
	if err := c.get(ctx, url, ErrTenantNotFound, &staff); err != nil {
		return nil, err
	}

	result := make([]*domain.StaffMember, 0, len(staff))
	for i := range staff {
		member, err := staff[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		result = append(result, member)
	}
	return result, nil
}

// GetService получает услугу из каталога салона
func (c *Client) GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error) {
	url := fmt.Sprintf("%s/internal/tenants/%d/services/%d", c.baseURL, tenantID, serviceID)

	var service Service
	if err := c.get(ctx, url, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}
	if service.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service %d has non-positive duration %d", ErrInvalidResponse, serviceID, service.DurationMinutes)
	}

	return service.toDomain(), nil
}

// get выполняет GET и декодирует JSON в out; 404 превращается в notFound
func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("SalonService request failed: url=%s: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
