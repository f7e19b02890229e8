package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
	"github.com/m04kA/SMC-SalonScheduler/internal/service/policy/models"
	"github.com/m04kA/SMC-SalonScheduler/internal/testutil"
	"github.com/m04kA/SMC-SalonScheduler/pkg/ptr"
)

func newService() (*Service, *testutil.Store) {
	store := testutil.NewStore()
	return NewService(store, testutil.NewSalon(1, "UTC"), &testutil.Logger{}), store
}

func TestService_GetReturnsDefaults(t *testing.T) {
	svc, _ := newService()

	resp, err := svc.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, domain.DefaultSlotMinutes, resp.SlotMinutes)
	assert.Equal(t, domain.DefaultFreeCancellationHours, resp.FreeCancellationHours)
	assert.Nil(t, resp.UpdatedAt)
}

func TestService_UpdateMergesFields(t *testing.T) {
	svc, store := newService()

	resp, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{
		SlotMinutes:     ptr.Ptr(30),
		CancellationFee: ptr.Ptr(25.0),
	})
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, 30, resp.SlotMinutes)
	assert.Equal(t, domain.DefaultFeeCurrency, resp.FeeCurrency)

	resp, err = svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{AdvanceBookingDays: ptr.Ptr(14)})
	require.NoError(t, err)
	assert.Equal(t, 30, resp.SlotMinutes)
	assert.Equal(t, 25.0, resp.CancellationFee)
	assert.Equal(t, 14, resp.AdvanceBookingDays)

	stored, err := store.GetByTenant(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 14, stored.AdvanceBookingDays)
}

func TestService_UpdateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.UpdatePolicyRequest
	}{
		{"slot too small", models.UpdatePolicyRequest{SlotMinutes: ptr.Ptr(0)}},
		{"slot too large", models.UpdatePolicyRequest{SlotMinutes: ptr.Ptr(480)}},
		{"slot not a multiple of 5", models.UpdatePolicyRequest{SlotMinutes: ptr.Ptr(17)}},
		{"negative fee", models.UpdatePolicyRequest{CancellationFee: ptr.Ptr(-1.0)}},
		{"bad currency", models.UpdatePolicyRequest{FeeCurrency: ptr.Ptr("euro")}},
		{"negative window", models.UpdatePolicyRequest{FreeCancellationHours: ptr.Ptr(-1)}},
		{"grace too long", models.UpdatePolicyRequest{LateGraceMinutes: ptr.Ptr(1000)}},
		{"horizon too long", models.UpdatePolicyRequest{AdvanceBookingDays: ptr.Ptr(400)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newService()
			req := tt.req
			_, err := svc.Update(context.Background(), 1, &req)
			assert.ErrorIs(t, err, ErrInvalidInput)

			_, err = store.GetByTenant(context.Background(), 1)
			assert.Error(t, err)
		})
	}
}

func TestService_UpdateUnknownTenant(t *testing.T) {
	svc, _ := newService()
	_, err := svc.Update(context.Background(), 99, &models.UpdatePolicyRequest{SlotMinutes: ptr.Ptr(30)})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}
