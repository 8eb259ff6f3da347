package dto

import "storefront-order-service/internal/model"

type Item struct {
	Product  string `json:"product"`
	Quantity int64  `json:"quantity"`
}

type PlaceOrderRequest struct {
	UserID  string  `json:"userId"`
	Items   []*Item `json:"items"`
	Address string  `json:"address"`
}

// Response is the uniform envelope for every order endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

type OrdersResponse struct {
	Success bool           `json:"success"`
	Orders  []*model.Order `json:"orders"`
}

type WebhookAck struct {
	Received bool `json:"received"`
}
