package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountKind identifies how a promotion's discount value is interpreted.
type DiscountKind string

const (
	DiscountPercentage  DiscountKind = "percentage"
	DiscountFixedAmount DiscountKind = "fixed_amount"
	DiscountFreeService DiscountKind = "free_service"
)

// CustomerType distinguishes first-time customers from returning ones.
type CustomerType string

const (
	CustomerAny      CustomerType = "any"
	CustomerNew      CustomerType = "new"
	CustomerExisting CustomerType = "existing"
)

// Discount is the benefit a promotion grants.
// Value holds percent points for percentage discounts and dollars for
// fixed amounts. FreeServiceID is only meaningful for free-service discounts.
type Discount struct {
	Kind          DiscountKind
	Value         decimal.Decimal
	FreeServiceID string
}

// Window bounds when a promotion is active. Nil bounds are open.
type Window struct {
	StartsAt *time.Time
	EndsAt   *time.Time
}

// Contains reports whether t falls inside the window, inclusive at both ends.
func (w Window) Contains(t time.Time) bool {
	if w.StartsAt != nil && t.Before(*w.StartsAt) {
		return false
	}
	if w.EndsAt != nil && t.After(*w.EndsAt) {
		return false
	}
	return true
}

// Promotion is a discount rule with eligibility predicates and display data.
// Promotions are never mutated once loaded into a table.
type Promotion struct {
	ID          string
	Code        string // empty for banner-only promotions
	Name        string
	Description string
	BannerText  string

	Discount Discount

	ServiceIDs    []string // empty means every service
	LocationSlugs []string // empty means every location
	CustomerType  CustomerType
	MinOrderValue Money

	Window Window

	BadgeText    string
	PriorityRank int // 0 means unranked
}

// HasCode reports whether the promotion can be redeemed by code.
func (p Promotion) HasCode() bool {
	return p.Code != ""
}

// EvaluationContext carries the caller-supplied facts a promotion is checked against.
type EvaluationContext struct {
	ServiceIDs   []string
	LocationSlug string
	CustomerType CustomerType
	OrderValue   Money
}

// Reason is a machine-readable rejection code.
type Reason string

const (
	ReasonCodeNotRecognized    Reason = "code_not_recognized"
	ReasonNotYetActive         Reason = "not_yet_active"
	ReasonExpired              Reason = "expired"
	ReasonCustomerTypeMismatch Reason = "customer_type_mismatch"
	ReasonServiceNotEligible   Reason = "service_not_eligible"
	ReasonLocationNotEligible  Reason = "location_not_eligible"
	ReasonMinimumNotMet        Reason = "minimum_not_met"
)

// ValidationResult is the outcome of checking a code against a context.
// Rejections are values, not errors.
type ValidationResult struct {
	Valid          bool
	Promotion      *Promotion
	DiscountAmount Money
	FreeService    bool
	FreeServiceID  string
	Reason         Reason
	Error          string
	Suggestion     string
}

// DisplayPayload is the presentation form of a promotion.
type DisplayPayload struct {
	Badge       string
	ExpiresText string
}
