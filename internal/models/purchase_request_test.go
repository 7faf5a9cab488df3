package models_test

import (
	"errors"
	"testing"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	allowed := []struct{ from, to models.RequestStatus }{
		{models.RequestStatusPending, models.RequestStatusApproved},
		{models.RequestStatusPending, models.RequestStatusRejected},
		{models.RequestStatusApproved, models.RequestStatusCompleted},
	}

	for _, tt := range allowed {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			next, err := models.Transition(tt.from, tt.to)

			require.NoError(t, err)
			assert.Equal(t, tt.to, next)
		})
	}

	denied := []struct{ from, to models.RequestStatus }{
		{models.RequestStatusApproved, models.RequestStatusApproved},
		{models.RequestStatusApproved, models.RequestStatusRejected},
		{models.RequestStatusRejected, models.RequestStatusApproved},
		{models.RequestStatusRejected, models.RequestStatusCompleted},
		{models.RequestStatusCompleted, models.RequestStatusPending},
		{models.RequestStatusPending, models.RequestStatusCompleted},
		{models.RequestStatusPending, models.RequestStatusPending},
	}

	for _, tt := range denied {
		t.Run("Denied "+string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			next, err := models.Transition(tt.from, tt.to)

			require.Error(t, err)
			assert.Equal(t, tt.from, next)

			var transitionErr *models.TransitionError
			require.True(t, errors.As(err, &transitionErr))
			assert.Equal(t, tt.from, transitionErr.From)
			assert.Equal(t, tt.to, transitionErr.To)
		})
	}
}

func TestRequestStatus(t *testing.T) {
	assert.True(t, models.RequestStatusPending.Valid())
	assert.False(t, models.RequestStatus("archived").Valid())
	assert.True(t, models.RequestStatusRejected.IsTerminal())
	assert.True(t, models.RequestStatusCompleted.IsTerminal())
	assert.False(t, models.RequestStatusApproved.IsTerminal())
	assert.False(t, models.RequestStatusPending.IsTerminal())
}

func TestPurchaseRequestListingFields(t *testing.T) {
	req := models.PurchaseRequest{
		ID:        uuid.New(),
		Product:   models.RefTo(models.Product{ID: uuid.New(), Name: "Widget A", SKU: "WA-1"}),
		Client:    models.RefTo(models.ClientSummary{ID: uuid.New(), Name: "Acme Motors", Email: "ops@acme.test", DealerName: "Acme", Region: "North"}),
		Quantity:  4,
		UnitPrice: decimal.RequireFromString("2.50"),
		Status:    models.RequestStatusPending,
	}

	assert.Contains(t, req.SearchFields(), "Widget A")
	assert.Contains(t, req.SearchFields(), "ops@acme.test")
	assert.Equal(t, "pending", req.StatusKey())
	assert.Equal(t, "Acme", req.FacetValue("dealer"))
	assert.Equal(t, "North", req.FacetValue("region"))
	assert.Equal(t, "", req.FacetValue("category"))
	assert.True(t, decimal.RequireFromString("10").Equal(req.Total()))
}
