package get_tenant_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(tenantID int64, query url.Values) (*models.GetTenantBookingsRequest, error) {
	req := &models.GetTenantBookingsRequest{
		TenantID:        tenantID,
		IncludeInactive: false, // По умолчанию только активные
	}

	var err error
	if req.StaffID, err = optionalID(query.Get("staffId")); err != nil {
		return nil, fmt.Errorf("invalid staffId: %w", err)
	}
	if req.ClientID, err = optionalID(query.Get("clientId")); err != nil {
		return nil, fmt.Errorf("invalid clientId: %w", err)
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if raw := query.Get("includeInactive"); raw != "" {
		req.IncludeInactive, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
	}

	if raw := query.Get("limit"); raw != "" {
		req.Limit, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid limit: %w", err)
		}
	}

	return req, nil
}

func optionalID(raw string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
