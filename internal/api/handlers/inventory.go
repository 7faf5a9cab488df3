package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/errors"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/metrics"
	service "github.com/aaravmahajanofficial/dealer-incentive-platform/internal/services"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/utils/response"
)

const defaultHeartbeat = 25 * time.Second

// EventSource hands out subscriptions to inventory-updated signals.
type EventSource interface {
	Subscribe(buffer int) (<-chan events.Event, func())
}

type InventoryHandler struct {
	inventoryService service.InventoryService
	source           EventSource
	heartbeat        time.Duration
}

func NewInventoryHandler(inventoryService service.InventoryService, source EventSource) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService, source: source, heartbeat: defaultHeartbeat}
}

// WithHeartbeat sets how often an idle event stream sends a keep-alive comment.
func (h *InventoryHandler) WithHeartbeat(d time.Duration) *InventoryHandler {
	h.heartbeat = d
	return h
}

// ListInventory godoc
//	@Summary		List the caller's reconciled inventory
//	@Description	Admins see the products they created. Clients see their own, uploaded and transferred products plus the active catalog, merged and deduplicated.
//	@Tags			Inventory
//	@Produce		json
//	@Param			search		query		string				false	"Case-insensitive match on name, SKU or description"
//	@Param			status		query		string				false	"in_stock, low_stock, out_of_stock or all"
//	@Param			category	query		string				false	"Exact category"
//	@Param			page		query		int					false	"Page number (default: 1)"
//	@Param			pageSize	query		int					false	"Items per page (default: 10, max: 100)"
//	@Success		200			{object}	models.InventoryPage
//	@Failure		401			{object}	response.ErrorResponse
//	@Failure		500			{object}	response.ErrorResponse
//	@Security		BearerAuth
//	@Router			/inventory [get]
func (h *InventoryHandler) ListInventory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewer, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		page, pageSize := utils.PageParams(r)
		filter := utils.FilterParams(r, "category")

		result, err := h.inventoryService.ListInventory(r.Context(), viewer, filter, page, pageSize)
		if err != nil {
			logger.Error("Failed to reconcile inventory", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		if result.Degraded {
			logger.Warn("Serving degraded inventory", slog.Any("failedSources", result.FailedSources))
		}

		response.Success(w, http.StatusOK, result)
	}
}

// LastUpdate godoc
//	@Summary	Timestamp of the last inventory change
//	@Tags		Inventory
//	@Produce	json
//	@Success	200	{object}	map[string]int64
//	@Failure	502	{object}	response.ErrorResponse
//	@Security	BearerAuth
//	@Router		/inventory/last-update [get]
func (h *InventoryHandler) LastUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		at, err := h.inventoryService.LastUpdate(r.Context())
		if err != nil {
			logger.Error("Failed to read last inventory update", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, map[string]int64{"lastUpdate": at})
	}
}

// Events godoc
//	@Summary		Stream inventory-updated signals
//	@Description	Server-sent events. Each event carries ids only; clients refetch the inventory.
//	@Tags			Inventory
//	@Produce		text/event-stream
//	@Success		200
//	@Security		BearerAuth
//	@Router			/inventory/events [get]
func (h *InventoryHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, logger, ok := requireViewer(w, r)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			response.Error(w, errors.InternalError("Streaming is not supported"))
			return
		}

		updates, cancel := h.source.Subscribe(events.DefaultSubscriberBuffer)
		defer cancel()

		metrics.StreamOpened()
		defer metrics.StreamClosed()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		fmt.Fprint(w, "retry: 5000\n\n")
		flusher.Flush()

		heartbeat := time.NewTicker(h.heartbeat)
		defer heartbeat.Stop()

		logger.Info("Inventory stream opened")

		for {
			select {
			case <-r.Context().Done():
				logger.Info("Inventory stream closed by client")
				return
			case event, open := <-updates:
				if !open {
					return
				}

				if err := writeEvent(w, event); err != nil {
					logger.Warn("Failed to write inventory event", slog.String("error", err.Error()))
					return
				}

				flusher.Flush()
			case <-heartbeat.C:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}

				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", event.At, event.Type, data)

	return err
}
