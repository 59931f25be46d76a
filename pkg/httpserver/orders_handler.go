package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/duelbot/dexduels/internal/storage"
	"github.com/duelbot/dexduels/pkg/types"
)

const defaultOrderLimit = 50

// OrdersHandler serves recent persisted orders for operator inspection.
type OrdersHandler struct {
	store  storage.Store
	logger *zap.Logger
}

// NewOrdersHandler creates an orders handler.
func NewOrdersHandler(store storage.Store, logger *zap.Logger) *OrdersHandler {
	return &OrdersHandler{store: store, logger: logger}
}

// OrdersResponse is the JSON body of GET /api/orders.
type OrdersResponse struct {
	Count  int            `json:"count"`
	Orders []*types.Order `json:"orders"`
}

// HandleOrders handles GET /api/orders?limit=N, newest first.
func (h *OrdersHandler) HandleOrders(w http.ResponseWriter, r *http.Request) {
	limit := defaultOrderLimit
	raw := r.URL.Query().Get("limit")
	if raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	orders, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("orders-query-failed", zap.Error(err))
		http.Error(w, "order store unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(OrdersResponse{
		Count:  len(orders),
		Orders: orders,
	})
}
