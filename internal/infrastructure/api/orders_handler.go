package api

import (
	"errors"
	"net/http"
	"strconv"

	"shopify-orders-gateway/internal/application"
	"shopify-orders-gateway/internal/domain"
	"shopify-orders-gateway/internal/infrastructure/shopify"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// OrdersHandler serves the authenticated order read endpoints.
type OrdersHandler struct {
	orders       *application.OrdersService
	presenter    *Presenter
	defaultLimit int
	logger       zerolog.Logger
}

// NewOrdersHandler creates the orders HTTP handler. defaultLimit applies
// when the request carries no limit parameter.
func NewOrdersHandler(orders *application.OrdersService, presenter *Presenter, defaultLimit int, logger zerolog.Logger) *OrdersHandler {
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &OrdersHandler{
		orders:       orders,
		presenter:    presenter,
		defaultLimit: defaultLimit,
		logger:       logger,
	}
}

// List handles GET /v1/orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	shop, ok := h.shopParam(w, r)
	if !ok {
		return
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = parsed
	}

	views, err := h.orders.List(r.Context(), shop, limit, r.URL.Query().Get("status"))
	if err != nil {
		h.writeOrdersError(w, shop, err)
		return
	}

	writeJSON(w, http.StatusOK, h.presenter.OrdersList(shop, views))
}

// GetByID handles GET /v1/orders/{orderID}.
func (h *OrdersHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	shop, ok := h.shopParam(w, r)
	if !ok {
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "order id must be numeric")
		return
	}

	view, err := h.orders.GetByID(r.Context(), shop, orderID)
	if err != nil {
		var httpErr *shopify.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		h.writeOrdersError(w, shop, err)
		return
	}

	writeJSON(w, http.StatusOK, h.presenter.Order(shop, view))
}

func (h *OrdersHandler) shopParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	shop, err := domain.NormalizeShopDomain(r.URL.Query().Get("shop"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return shop, true
}

// writeOrdersError maps service and upstream failures onto responses. A 401
// from Shopify means the stored token no longer works, so the client gets
// the URL that restarts the install flow.
func (h *OrdersHandler) writeOrdersError(w http.ResponseWriter, shop string, err error) {
	var httpErr *shopify.HTTPError
	var connErr *shopify.ConnectionError

	switch {
	case errors.Is(err, application.ErrShopNotConnected), errors.Is(err, shopify.ErrMissingAccessToken):
		writeAuthRequired(w, http.StatusUnauthorized, "shop not connected", h.orders.AuthURLFor(shop))
	case errors.As(err, &httpErr):
		switch httpErr.Status {
		case http.StatusUnauthorized:
			writeAuthRequired(w, http.StatusUnauthorized, "access token is invalid or expired", h.orders.AuthURLFor(shop))
		case http.StatusForbidden:
			writeError(w, http.StatusForbidden, "access token lacks required permissions")
		default:
			h.logger.Warn().Int("status", httpErr.Status).Str("shop", shop).Msg("Passing upstream error through")
			writeJSON(w, httpErr.Status, upstreamErrorBody(httpErr.Body))
		}
	case errors.As(err, &connErr):
		h.logger.Error().Err(err).Str("shop", shop).Msg("Failed to reach Shopify")
		writeError(w, http.StatusInternalServerError, "failed to reach shopify")
	default:
		h.logger.Error().Err(err).Str("shop", shop).Msg("Orders request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
