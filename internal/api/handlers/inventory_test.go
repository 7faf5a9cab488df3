package handlers_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/handlers"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/listing"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/services/mocks"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListInventory(t *testing.T) {
	t.Run("Success - Filters Forwarded", func(t *testing.T) {
		// Arrange
		mockService := mocks.NewMockInventoryService(t)
		handler := handlers.NewInventoryHandler(mockService, events.NewBus())

		wantFilter := listing.Filter{Search: "widget", Status: "low_stock", Facets: map[string]string{"category": "Widgets"}}
		page := &models.InventoryPage{
			Data:       []models.InventoryItem{{Product: models.Product{ID: uuid.New(), Name: "Widget A"}}},
			Total:      11,
			Page:       2,
			PageSize:   10,
			TotalPages: 2,
			LastUpdate: 1_700_000_000_000,
		}
		mockService.On("ListInventory", mock.Anything, testClient, wantFilter, 2, 10).Return(page, nil).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodGet,
			"/api/v1/inventory?search=widget&status=low_stock&category=Widgets&page=2&pageSize=10", nil, testClient, nil)

		// Act
		handler.ListInventory().ServeHTTP(rr, req)

		// Assert
		var got models.InventoryPage
		resp := decodeResponse(t, rr, &got)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, resp.Success)
		assert.Equal(t, 11, got.Total)
		assert.Equal(t, int64(1_700_000_000_000), got.LastUpdate)
		require.Len(t, got.Data, 1)
	})

	t.Run("Success - Degraded View Served", func(t *testing.T) {
		mockService := mocks.NewMockInventoryService(t)
		handler := handlers.NewInventoryHandler(mockService, events.NewBus())

		page := &models.InventoryPage{Page: 1, PageSize: 10, Degraded: true, FailedSources: []models.InventorySource{models.SourceTransferred}}
		mockService.On("ListInventory", mock.Anything, testClient, listing.Filter{}, 1, 10).Return(page, nil).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/inventory", nil, testClient, nil)

		handler.ListInventory().ServeHTTP(rr, req)

		var got models.InventoryPage
		decodeResponse(t, rr, &got)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, got.Degraded)
		assert.Equal(t, []models.InventorySource{models.SourceTransferred}, got.FailedSources)
	})

	t.Run("Error - All Sources Failed", func(t *testing.T) {
		mockService := mocks.NewMockInventoryService(t)
		handler := handlers.NewInventoryHandler(mockService, events.NewBus())

		mockService.On("ListInventory", mock.Anything, testAdmin, mock.Anything, 1, 10).
			Return(nil, appErrors.DatabaseError("Failed to load inventory")).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/inventory", nil, testAdmin, nil)

		handler.ListInventory().ServeHTTP(rr, req)

		resp := decodeResponse(t, rr, nil)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, resp.Error.Code)
	})
}

func TestLastUpdate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := mocks.NewMockInventoryService(t)
		handler := handlers.NewInventoryHandler(mockService, events.NewBus())
		mockService.On("LastUpdate", mock.Anything).Return(int64(42), nil).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/inventory/last-update", nil, testClient, nil)

		handler.LastUpdate().ServeHTTP(rr, req)

		var got map[string]int64
		decodeResponse(t, rr, &got)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, int64(42), got["lastUpdate"])
	})

	t.Run("Error - Marker Unavailable", func(t *testing.T) {
		mockService := mocks.NewMockInventoryService(t)
		handler := handlers.NewInventoryHandler(mockService, events.NewBus())
		mockService.On("LastUpdate", mock.Anything).
			Return(int64(0), appErrors.ThirdPartyError("Failed to read inventory marker").WithError(errors.New("dial tcp"))).Once()

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/inventory/last-update", nil, testClient, nil)

		handler.LastUpdate().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})
}

// subscribedBus reports when the stream handler has subscribed.
type subscribedBus struct {
	*events.Bus
	subscribed chan struct{}
}

func (b *subscribedBus) Subscribe(buffer int) (<-chan events.Event, func()) {
	ch, cancel := b.Bus.Subscribe(buffer)
	close(b.subscribed)

	return ch, cancel
}

func TestEvents(t *testing.T) {
	t.Run("Streams Published Events", func(t *testing.T) {
		// Arrange
		bus := &subscribedBus{Bus: events.NewBus(), subscribed: make(chan struct{})}
		handler := handlers.NewInventoryHandler(mocks.NewMockInventoryService(t), bus).WithHeartbeat(time.Hour)

		claims := &models.Claims{UserID: testClient.UserID, Role: models.RoleClient, OrganizationID: testOrg}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
			handler.Events().ServeHTTP(w, r.WithContext(ctx))
		}))
		defer server.Close()

		ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

		<-bus.subscribed

		productID := uuid.New()
		event := events.NewInventoryUpdated("purchase_request_approved", productID)

		// Act
		require.NoError(t, bus.Publish(ctx, event))

		// Assert
		reader := bufio.NewReader(resp.Body)

		var eventLine, dataLine string
		for dataLine == "" {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)

			switch {
			case strings.HasPrefix(line, "event: "):
				eventLine = strings.TrimSpace(strings.TrimPrefix(line, "event: "))
			case strings.HasPrefix(line, "data: "):
				dataLine = strings.TrimSpace(strings.TrimPrefix(line, "data: "))
			}
		}

		var got events.Event
		require.NoError(t, json.Unmarshal([]byte(dataLine), &got))
		assert.Equal(t, string(events.EventInventoryUpdated), eventLine)
		assert.Equal(t, []uuid.UUID{productID}, got.ProductIDs)
		assert.Equal(t, "purchase_request_approved", got.Reason)
	})

	t.Run("Stream Ends On Server Shutdown", func(t *testing.T) {
		// Arrange
		bus := &subscribedBus{Bus: events.NewBus(), subscribed: make(chan struct{})}
		handler := handlers.NewInventoryHandler(mocks.NewMockInventoryService(t), bus).WithHeartbeat(time.Hour)

		claims := &models.Claims{UserID: testClient.UserID, Role: models.RoleClient, OrganizationID: testOrg}
		server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), middleware.UserContextKey, claims)
			handler.Events().ServeHTTP(w, r.WithContext(ctx))
		}))
		server.Config.RegisterOnShutdown(bus.Close)
		server.Start()
		defer server.Close()

		ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		<-bus.subscribed

		// Act
		err = server.Config.Shutdown(ctx)

		// Assert
		require.NoError(t, err)

		_, err = io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, 0, bus.Subscribers())
	})

	t.Run("Error - No Viewer", func(t *testing.T) {
		handler := handlers.NewInventoryHandler(mocks.NewMockInventoryService(t), events.NewBus())

		rr := httptest.NewRecorder()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/inventory/events", nil, nil)

		handler.Events().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
