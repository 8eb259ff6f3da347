// Package pricing computes order totals and the per-line amounts shown to the
// payment processor.
//
// Two rounding rules coexist. The stored order amount floors the surcharge
// once over the whole cart, while each checkout line floors it per unit price
// before converting to minor units. Their sums may differ by rounding; the
// processor-facing figures are kept bit-compatible with existing sessions.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"

	"storefront-order-service/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidItems   = errors.New("order must contain at least one item")
	ErrInvalidAddress = errors.New("order address is required")
	ErrInvalidLine    = errors.New("order line must reference a product with quantity between 1 and 999999")
	ErrUnknownProduct = errors.New("product not found")
	ErrAmountTooLarge = errors.New("order amount out of range")
)

// surchargeRate is the 2% fee applied on top of the offer price.
var surchargeRate = decimal.New(2, -2)

const minorUnitsPerMajor = 100

// MaxQuantity is the largest quantity accepted on one line, the same cap
// Stripe applies to checkout line items.
const MaxQuantity = 999999

var maxAmount = decimal.NewFromInt(math.MaxInt64)

type LineItem struct {
	ProductID string `json:"product"`
	Quantity  int64  `json:"quantity"`
}

// ProductResolver looks a product up by id. It returns an error wrapping
// gorm.ErrRecordNotFound (or any error) when the product cannot be resolved.
type ProductResolver interface {
	FindByID(ctx context.Context, productID string) (*model.Product, error)
}

type PricedLine struct {
	ProductID  string
	Name       string
	OfferPrice int64
	Quantity   int64
}

// UnitAmountMinor is the per-unit price, surcharge included, in minor currency units.
func (l PricedLine) UnitAmountMinor() int64 {
	return UnitAmountMinor(l.OfferPrice)
}

type Quote struct {
	BaseAmount int64
	Surcharge  int64
	Amount     int64
	Lines      []PricedLine
}

// Validate rejects orders that must never reach persistence or the gateway.
func Validate(items []LineItem, addressID string) error {
	if len(items) == 0 {
		return ErrInvalidItems
	}
	if addressID == "" {
		return ErrInvalidAddress
	}
	for _, item := range items {
		if !validLine(item) {
			return ErrInvalidLine
		}
	}
	return nil
}

func validLine(item LineItem) bool {
	return item.ProductID != "" && item.Quantity > 0 && item.Quantity <= MaxQuantity
}

// Compute resolves each line sequentially and totals the cart. Totals are
// accumulated exactly and rejected with ErrAmountTooLarge rather than wrapped.
func Compute(ctx context.Context, items []LineItem, resolver ProductResolver) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrInvalidItems
	}

	base := decimal.Zero
	quote := &Quote{Lines: make([]PricedLine, 0, len(items))}
	for _, item := range items {
		if !validLine(item) {
			return nil, ErrInvalidLine
		}

		product, err := resolver.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("resolve product %s: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, fmt.Errorf("resolve product %s: %w", item.ProductID, ErrUnknownProduct)
		}

		base = base.Add(decimal.NewFromInt(product.OfferPrice).Mul(decimal.NewFromInt(item.Quantity)))
		quote.Lines = append(quote.Lines, PricedLine{
			ProductID:  product.ID,
			Name:       product.Name,
			OfferPrice: product.OfferPrice,
			Quantity:   item.Quantity,
		})
	}

	surcharge := base.Mul(surchargeRate).Floor()
	amount := base.Add(surcharge)
	if base.IsNegative() || amount.GreaterThan(maxAmount) {
		return nil, fmt.Errorf("%w: %s", ErrAmountTooLarge, amount.String())
	}

	quote.BaseAmount = base.IntPart()
	quote.Surcharge = surcharge.IntPart()
	quote.Amount = amount.IntPart()

	return quote, nil
}

// Surcharge returns floor(amount * 2%).
func Surcharge(amount int64) int64 {
	return decimal.NewFromInt(amount).Mul(surchargeRate).Floor().IntPart()
}

// UnitAmountMinor returns floor(price + price*2%) * 100.
func UnitAmountMinor(price int64) int64 {
	p := decimal.NewFromInt(price)
	return p.Add(p.Mul(surchargeRate)).Floor().IntPart() * minorUnitsPerMajor
}
