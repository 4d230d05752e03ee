package promotion

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
)

// DefaultSuggestionDistance is the largest edit distance that still yields a suggestion.
const DefaultSuggestionDistance = 2

// PriceList maps a service identifier to its base price.
type PriceList map[string]model.Money

// Evaluator checks codes against a promotion table. It holds no mutable state.
type Evaluator struct {
	table        *Table
	prices       PriceList
	maxSuggestAt int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithPriceList supplies base prices used to value free-service promotions.
func WithPriceList(prices PriceList) Option {
	return func(e *Evaluator) {
		e.prices = make(PriceList, len(prices))
		for id, price := range prices {
			e.prices[normalizeKey(id)] = price
		}
	}
}

// WithSuggestionDistance sets the suggestion threshold. Zero or less disables suggestions.
func WithSuggestionDistance(d int) Option {
	return func(e *Evaluator) {
		e.maxSuggestAt = d
	}
}

// NewEvaluator creates an Evaluator over the given table.
func NewEvaluator(table *Table, opts ...Option) *Evaluator {
	e := &Evaluator{
		table:        table,
		maxSuggestAt: DefaultSuggestionDistance,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the table the evaluator reads from.
func (e *Evaluator) Table() *Table {
	return e.table
}

// Validate checks code against ctx as of now.
// Rejections are reported in the result; an error is returned only when the
// input itself cannot be classified (ErrEmptyCode, ErrInvalidContext).
func (e *Evaluator) Validate(code string, ctx model.EvaluationContext, now time.Time) (model.ValidationResult, error) {
	if strings.TrimSpace(code) == "" {
		return model.ValidationResult{}, ErrEmptyCode
	}
	if err := checkContext(ctx); err != nil {
		return model.ValidationResult{}, err
	}

	promo, ok := e.table.Lookup(code)
	if !ok {
		return model.ValidationResult{
			Reason:     model.ReasonCodeNotRecognized,
			Error:      "code not recognized",
			Suggestion: e.suggest(code, now),
		}, nil
	}

	if reason, msg := applicable(promo, ctx, now); reason != "" {
		return model.ValidationResult{
			Promotion: &promo,
			Reason:    reason,
			Error:     msg,
		}, nil
	}

	result := model.ValidationResult{
		Valid:     true,
		Promotion: &promo,
	}
	e.applyDiscount(&result, promo.Discount, ctx.OrderValue)
	return result, nil
}

func checkContext(ctx model.EvaluationContext) error {
	if ctx.OrderValue.IsNegative() {
		return fmt.Errorf("%w: order value must not be negative", ErrInvalidContext)
	}
	if ctx.OrderValue.GreaterThan(model.MaxMoney) {
		return fmt.Errorf("%w: order value exceeds %s", ErrInvalidContext, model.MaxMoney.StringFixed(2))
	}
	switch ctx.CustomerType {
	case model.CustomerNew, model.CustomerExisting:
	default:
		return fmt.Errorf("%w: unknown customer type %q", ErrInvalidContext, ctx.CustomerType)
	}
	return nil
}

// applicable runs the eligibility checks in order and returns the first failure.
func applicable(p model.Promotion, ctx model.EvaluationContext, now time.Time) (model.Reason, string) {
	if p.Window.StartsAt != nil && now.Before(*p.Window.StartsAt) {
		return model.ReasonNotYetActive, "this promotion has not started yet"
	}
	if p.Window.EndsAt != nil && now.After(*p.Window.EndsAt) {
		return model.ReasonExpired, "this promotion has expired"
	}

	if !customerMatches(p.CustomerType, ctx.CustomerType) {
		if p.CustomerType == model.CustomerNew {
			return model.ReasonCustomerTypeMismatch, "this promotion is for new customers only"
		}
		return model.ReasonCustomerTypeMismatch, "this promotion is for existing customers only"
	}

	if len(p.ServiceIDs) > 0 && !intersects(p.ServiceIDs, ctx.ServiceIDs) {
		return model.ReasonServiceNotEligible, "this promotion does not apply to the selected services"
	}

	if len(p.LocationSlugs) > 0 && !contains(p.LocationSlugs, ctx.LocationSlug) {
		return model.ReasonLocationNotEligible, "this promotion is not available in your area"
	}

	if ctx.OrderValue.LessThan(p.MinOrderValue.Decimal) {
		return model.ReasonMinimumNotMet, fmt.Sprintf("a minimum order of $%s is required", p.MinOrderValue.String())
	}
	return "", ""
}

func customerMatches(required, actual model.CustomerType) bool {
	switch required {
	case "", model.CustomerAny:
		return true
	default:
		return required == actual
	}
}

func intersects(allowed, requested []string) bool {
	for _, r := range requested {
		if contains(allowed, r) {
			return true
		}
	}
	return false
}

func contains(set []string, v string) bool {
	key := normalizeKey(v)
	if key == "" {
		return false
	}
	return slices.ContainsFunc(set, func(s string) bool {
		return normalizeKey(s) == key
	})
}

func (e *Evaluator) applyDiscount(result *model.ValidationResult, d model.Discount, orderValue model.Money) {
	order := orderValue.Decimal

	switch d.Kind {
	case model.DiscountPercentage:
		amount := order.Mul(d.Value).Div(hundred)
		result.DiscountAmount = model.NewMoney(clamp(amount, order))
	case model.DiscountFixedAmount:
		result.DiscountAmount = model.NewMoney(clamp(d.Value, order))
	case model.DiscountFreeService:
		result.FreeService = true
		result.FreeServiceID = d.FreeServiceID
		price, ok := e.prices[normalizeKey(d.FreeServiceID)]
		if !ok {
			// Unpriced: the benefit is reported without a monetary value.
			result.DiscountAmount = model.NewMoney(decimal.Zero)
			return
		}
		result.DiscountAmount = model.NewMoney(clamp(price.Decimal, order))
	default:
		panic(fmt.Sprintf("promotion: unhandled discount kind %q", d.Kind))
	}
}

// clamp bounds amount to [0, limit].
func clamp(amount, limit decimal.Decimal) decimal.Decimal {
	if amount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(amount, limit)
}
