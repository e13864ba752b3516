package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OrderView is the order projection exposed by the gateway. Upstream payloads
// are decoded through a closed field set, so anything Shopify adds beyond the
// mapped fields never reaches an API response.
type OrderView struct {
	ID                int64          `json:"id"`
	Name              string         `json:"name"`
	OrderNumber       int            `json:"order_number"`
	CreatedAt         string         `json:"created_at"`
	ProcessedAt       string         `json:"processed_at,omitempty"`
	CancelledAt       string         `json:"cancelled_at,omitempty"`
	Currency          string         `json:"currency"`
	FinancialStatus   string         `json:"financial_status"`
	FulfillmentStatus string         `json:"fulfillment_status"`
	SubtotalPrice     string         `json:"subtotal_price"`
	TotalPrice        string         `json:"total_price"`
	TotalTax          string         `json:"total_tax"`
	TotalDiscounts    string         `json:"total_discounts"`
	Customer          *CustomerView  `json:"customer,omitempty"`
	LineItems         []LineItemView `json:"line_items"`
	ShippingAddress   *AddressView   `json:"shipping_address,omitempty"`
	BillingAddress    *AddressView   `json:"billing_address,omitempty"`
}

// CustomerView is the customer summary attached to an order.
type CustomerView struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// LineItemView carries one order line with its computed total.
type LineItemView struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	SKU       string `json:"sku,omitempty"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
	LineTotal string `json:"line_total,omitempty"`
}

// AddressView is the shipping or billing address summary.
type AddressView struct {
	Name     string `json:"name,omitempty"`
	Address1 string `json:"address1,omitempty"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city,omitempty"`
	Province string `json:"province,omitempty"`
	Zip      string `json:"zip,omitempty"`
	Country  string `json:"country,omitempty"`
}

type shopifyOrder struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	OrderNumber       int               `json:"order_number"`
	CreatedAt         string            `json:"created_at"`
	ProcessedAt       string            `json:"processed_at"`
	CancelledAt       string            `json:"cancelled_at"`
	Currency          string            `json:"currency"`
	FinancialStatus   string            `json:"financial_status"`
	FulfillmentStatus *string           `json:"fulfillment_status"`
	SubtotalPrice     string            `json:"subtotal_price"`
	TotalPrice        string            `json:"total_price"`
	TotalTax          string            `json:"total_tax"`
	TotalDiscounts    string            `json:"total_discounts"`
	Customer          *shopifyCustomer  `json:"customer"`
	LineItems         []shopifyLineItem `json:"line_items"`
	ShippingAddress   *shopifyAddress   `json:"shipping_address"`
	BillingAddress    *shopifyAddress   `json:"billing_address"`
}

type shopifyCustomer struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type shopifyLineItem struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type shopifyAddress struct {
	Name     string `json:"name"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
}

// OrderViewsFromListPayload projects an Admin API orders.json payload.
func OrderViewsFromListPayload(raw []byte) ([]OrderView, error) {
	var payload struct {
		Orders []shopifyOrder `json:"orders"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode orders payload: %w", err)
	}
	views := make([]OrderView, 0, len(payload.Orders))
	for i := range payload.Orders {
		views = append(views, newOrderView(&payload.Orders[i]))
	}
	return views, nil
}

// OrderViewFromPayload projects a single-order orders/<id>.json payload.
func OrderViewFromPayload(raw []byte) (*OrderView, error) {
	var payload struct {
		Order *shopifyOrder `json:"order"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode order payload: %w", err)
	}
	if payload.Order == nil {
		return nil, fmt.Errorf("order payload missing order object")
	}
	view := newOrderView(payload.Order)
	return &view, nil
}

func newOrderView(o *shopifyOrder) OrderView {
	view := OrderView{
		ID:                o.ID,
		Name:              o.Name,
		OrderNumber:       o.OrderNumber,
		CreatedAt:         o.CreatedAt,
		ProcessedAt:       o.ProcessedAt,
		CancelledAt:       o.CancelledAt,
		Currency:          o.Currency,
		FinancialStatus:   o.FinancialStatus,
		FulfillmentStatus: "unfulfilled",
		SubtotalPrice:     o.SubtotalPrice,
		TotalPrice:        o.TotalPrice,
		TotalTax:          o.TotalTax,
		TotalDiscounts:    o.TotalDiscounts,
		LineItems:         make([]LineItemView, 0, len(o.LineItems)),
	}
	if o.FulfillmentStatus != nil && *o.FulfillmentStatus != "" {
		view.FulfillmentStatus = *o.FulfillmentStatus
	}
	if o.Customer != nil {
		view.Customer = &CustomerView{
			ID:    o.Customer.ID,
			Name:  strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName),
			Email: o.Customer.Email,
		}
	}
	for _, item := range o.LineItems {
		view.LineItems = append(view.LineItems, LineItemView{
			ID:        item.ID,
			Title:     item.Title,
			SKU:       item.SKU,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: lineTotal(item.Price, item.Quantity),
		})
	}
	view.ShippingAddress = addressView(o.ShippingAddress)
	view.BillingAddress = addressView(o.BillingAddress)
	return view
}

func addressView(a *shopifyAddress) *AddressView {
	if a == nil {
		return nil
	}
	return &AddressView{
		Name:     a.Name,
		Address1: a.Address1,
		Address2: a.Address2,
		City:     a.City,
		Province: a.Province,
		Zip:      a.Zip,
		Country:  a.Country,
	}
}

// lineTotal multiplies a Shopify money string by the line quantity. An
// unparseable price yields an empty total rather than a fabricated one.
func lineTotal(price string, quantity int) string {
	p, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatFloat(p*float64(quantity), 'f', 2, 64)
}
