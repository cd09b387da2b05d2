package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type PricingPolicy string

const (
	// PricingBundled звёзды + фиксированная плата за подписку
	PricingBundled PricingPolicy = "bundled"
	// PricingPerUnit только звёзды, округление вниз до целого
	PricingPerUnit PricingPolicy = "per_unit"
)

func (p PricingPolicy) IsValid() bool {
	return p == PricingBundled || p == PricingPerUnit
}

// Pricing считает стоимость заказа. Количество уже проверено в ParseOrderInput.
type Pricing struct {
	Policy  PricingPolicy
	Rate    decimal.Decimal
	FlatFee decimal.Decimal
}

func NewPricing(policy PricingPolicy, rate, flatFee decimal.Decimal) (Pricing, error) {
	if !policy.IsValid() {
		return Pricing{}, fmt.Errorf("unknown pricing policy: %q", policy)
	}
	if !rate.IsPositive() {
		return Pricing{}, fmt.Errorf("rate must be positive, got %s", rate)
	}
	if flatFee.IsNegative() {
		return Pricing{}, fmt.Errorf("flat fee must not be negative, got %s", flatFee)
	}
	return Pricing{Policy: policy, Rate: rate, FlatFee: flatFee}, nil
}

func (p Pricing) Price(quantity int) decimal.Decimal {
	amount := decimal.NewFromInt(int64(quantity)).Mul(p.Rate)
	if p.Policy == PricingPerUnit {
		return amount.Floor()
	}
	return amount.Add(p.FlatFee)
}

// IncludesSubscription оплата заказа продлевает подписку
func (p Pricing) IncludesSubscription() bool {
	return p.Policy == PricingBundled
}
