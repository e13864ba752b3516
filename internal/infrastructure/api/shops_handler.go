package api

import (
	"errors"
	"net/http"

	"shopify-orders-gateway/internal/application"
	"shopify-orders-gateway/internal/domain"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ShopsHandler serves the connected-shop management endpoints.
type ShopsHandler struct {
	orders    *application.OrdersService
	presenter *Presenter
	logger    zerolog.Logger
}

// NewShopsHandler creates the shops HTTP handler.
func NewShopsHandler(orders *application.OrdersService, presenter *Presenter, logger zerolog.Logger) *ShopsHandler {
	return &ShopsHandler{orders: orders, presenter: presenter, logger: logger}
}

// List handles GET /v1/shops.
func (h *ShopsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.orders.ListShops(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list connected shops")
		writeError(w, http.StatusInternalServerError, "failed to list shops")
		return
	}

	writeJSON(w, http.StatusOK, h.presenter.Shops(records))
}

// Delete handles DELETE /v1/shops/{shop}.
func (h *ShopsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shop, err := domain.NormalizeShopDomain(chi.URLParam(r, "shop"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.orders.Disconnect(r.Context(), shop); err != nil {
		if errors.Is(err, application.ErrShopNotConnected) {
			writeError(w, http.StatusNotFound, "shop not connected")
			return
		}
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to disconnect shop")
		writeError(w, http.StatusInternalServerError, "failed to disconnect shop")
		return
	}

	writeJSON(w, http.StatusOK, h.presenter.ShopRemoved(shop))
}
