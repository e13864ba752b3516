package api

import (
	"bytes"
	"encoding/json"

	"shopify-orders-gateway/internal/domain"
)

// Presenter shapes success envelopes for the configured response locale.
// The data model stays canonical throughout the service; locales only
// rename keys and translate status values at the very edge, so adding a
// locale never touches the domain or application layers.
type Presenter struct {
	locale string
}

// NewPresenter creates a presenter for the given locale. Unknown locales
// fall back to English.
func NewPresenter(locale string) *Presenter {
	if locale != "es" {
		locale = "en"
	}
	return &Presenter{locale: locale}
}

// OrdersList builds the envelope for an order listing.
func (p *Presenter) OrdersList(shop string, orders []domain.OrderView) any {
	if orders == nil {
		orders = []domain.OrderView{}
	}
	return p.localize(map[string]any{
		"ok":     true,
		"shop":   shop,
		"count":  len(orders),
		"orders": orders,
	})
}

// Order builds the envelope for a single order.
func (p *Presenter) Order(shop string, order *domain.OrderView) any {
	return p.localize(map[string]any{
		"ok":    true,
		"shop":  shop,
		"order": order,
	})
}

// Shops builds the envelope for the connected shop listing. Access tokens
// never appear in responses.
func (p *Presenter) Shops(records []*domain.ShopRecord) any {
	shops := make([]map[string]any, 0, len(records))
	for _, record := range records {
		shops = append(shops, map[string]any{
			"domain":       record.Domain,
			"installed_at": record.InstalledAt,
		})
	}
	return p.localize(map[string]any{
		"ok":    true,
		"count": len(shops),
		"shops": shops,
	})
}

// ShopRemoved builds the envelope confirming a disconnect.
func (p *Presenter) ShopRemoved(shop string) any {
	return p.localize(map[string]any{
		"ok":   true,
		"shop": shop,
	})
}

// localize rewrites an envelope for the active locale. English envelopes
// pass through untouched. Numbers round-trip as json.Number so large order
// ids survive the rewrite.
func (p *Presenter) localize(v any) any {
	if p.locale != "es" {
		return v
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return v
	}
	return translateValue(decoded)
}

func translateValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for key, child := range value {
			child = translateValue(child)
			if s, ok := child.(string); ok && (key == "financial_status" || key == "fulfillment_status") {
				if translated, ok := spanishStatuses[s]; ok {
					child = translated
				}
			}
			if translated, ok := spanishKeys[key]; ok {
				key = translated
			}
			out[key] = child
		}
		return out
	case []any:
		for i := range value {
			value[i] = translateValue(value[i])
		}
		return value
	default:
		return v
	}
}

var spanishKeys = map[string]string{
	"ok":                 "exito",
	"shop":               "tienda",
	"shops":              "tiendas",
	"count":              "cantidad",
	"order":              "pedido",
	"orders":             "pedidos",
	"name":               "nombre",
	"order_number":       "numero_de_pedido",
	"created_at":         "creado_el",
	"processed_at":       "procesado_el",
	"cancelled_at":       "cancelado_el",
	"currency":           "moneda",
	"financial_status":   "estado_de_pago",
	"fulfillment_status": "estado_de_envio",
	"subtotal_price":     "precio_subtotal",
	"total_price":        "precio_total",
	"total_tax":          "impuestos_totales",
	"total_discounts":    "descuentos_totales",
	"customer":           "cliente",
	"email":              "correo",
	"line_items":         "articulos",
	"title":              "titulo",
	"quantity":           "cantidad",
	"price":              "precio",
	"line_total":         "total_de_linea",
	"shipping_address":   "direccion_de_envio",
	"billing_address":    "direccion_de_facturacion",
	"address1":           "direccion1",
	"address2":           "direccion2",
	"city":               "ciudad",
	"province":           "provincia",
	"zip":                "codigo_postal",
	"country":            "pais",
	"domain":             "dominio",
	"installed_at":       "instalada_el",
}

var spanishStatuses = map[string]string{
	"pending":            "pendiente",
	"authorized":         "autorizado",
	"paid":               "pagado",
	"partially_paid":     "pagado_parcialmente",
	"partially_refunded": "reembolsado_parcialmente",
	"refunded":           "reembolsado",
	"voided":             "anulado",
	"fulfilled":          "preparado",
	"partial":            "parcial",
	"unfulfilled":        "no_preparado",
	"restocked":          "reabastecido",
}
