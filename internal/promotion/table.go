// Package promotion evaluates customer-entered promotion codes against an
// immutable, in-memory promotion table.
package promotion

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Table is a read-only promotion table indexed by normalized code.
// It is safe for concurrent use because nothing mutates it after NewTable.
type Table struct {
	promotions []model.Promotion
	byCode     map[string]int
}

// NewTable copies promos into a new Table.
// Returns ErrInvalidPromotion when a record is malformed or duplicates another.
func NewTable(promos []model.Promotion) (*Table, error) {
	t := &Table{
		promotions: make([]model.Promotion, 0, len(promos)),
		byCode:     make(map[string]int, len(promos)),
	}
	ids := make(map[string]struct{}, len(promos))

	for _, p := range promos {
		if err := checkPromotion(p); err != nil {
			return nil, err
		}
		if _, dup := ids[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidPromotion, p.ID)
		}
		ids[p.ID] = struct{}{}

		p = clonePromotion(p)
		if p.HasCode() {
			key := NormalizeCode(p.Code)
			if _, dup := t.byCode[key]; dup {
				return nil, fmt.Errorf("%w: duplicate code %q", ErrInvalidPromotion, p.Code)
			}
			t.byCode[key] = len(t.promotions)
		}
		t.promotions = append(t.promotions, p)
	}
	return t, nil
}

// MustNewTable is NewTable for compiled-in data; it panics on error.
func MustNewTable(promos []model.Promotion) *Table {
	t, err := NewTable(promos)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of promotions in the table.
func (t *Table) Len() int {
	return len(t.promotions)
}

// Lookup finds a promotion by code, ignoring case and whitespace.
func (t *Table) Lookup(code string) (model.Promotion, bool) {
	i, ok := t.byCode[NormalizeCode(code)]
	if !ok {
		return model.Promotion{}, false
	}
	return t.promotions[i], true
}

// All returns a copy of every promotion in table order.
func (t *Table) All() []model.Promotion {
	return slices.Clone(t.promotions)
}

// NormalizeCode trims, removes inner whitespace and lower-cases a code.
func NormalizeCode(code string) string {
	return strings.ToLower(strings.Join(strings.Fields(code), ""))
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkPromotion(p model.Promotion) error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidPromotion)
	}
	if p.HasCode() && NormalizeCode(p.Code) == "" {
		return fmt.Errorf("%w: %s has a blank code", ErrInvalidPromotion, p.ID)
	}
	if p.Discount.Value.IsNegative() {
		return fmt.Errorf("%w: %s has a negative discount", ErrInvalidPromotion, p.ID)
	}
	if p.MinOrderValue.IsNegative() {
		return fmt.Errorf("%w: %s has a negative minimum", ErrInvalidPromotion, p.ID)
	}

	switch p.Discount.Kind {
	case model.DiscountPercentage:
		if p.Discount.Value.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s exceeds 100 percent", ErrInvalidPromotion, p.ID)
		}
	case model.DiscountFixedAmount:
	case model.DiscountFreeService:
		if strings.TrimSpace(p.Discount.FreeServiceID) == "" {
			return fmt.Errorf("%w: %s has no free service", ErrInvalidPromotion, p.ID)
		}
	default:
		return fmt.Errorf("%w: %s has unknown discount kind %q", ErrInvalidPromotion, p.ID, p.Discount.Kind)
	}

	switch p.CustomerType {
	case "", model.CustomerAny, model.CustomerNew, model.CustomerExisting:
	default:
		return fmt.Errorf("%w: %s has unknown customer type %q", ErrInvalidPromotion, p.ID, p.CustomerType)
	}

	w := p.Window
	if w.StartsAt != nil && w.EndsAt != nil && w.EndsAt.Before(*w.StartsAt) {
		return fmt.Errorf("%w: %s ends before it starts", ErrInvalidPromotion, p.ID)
	}
	return nil
}

func clonePromotion(p model.Promotion) model.Promotion {
	p.ServiceIDs = slices.Clone(p.ServiceIDs)
	p.LocationSlugs = slices.Clone(p.LocationSlugs)
	if p.Window.StartsAt != nil {
		s := *p.Window.StartsAt
		p.Window.StartsAt = &s
	}
	if p.Window.EndsAt != nil {
		e := *p.Window.EndsAt
		p.Window.EndsAt = &e
	}
	if p.CustomerType == "" {
		p.CustomerType = model.CustomerAny
	}
	return p
}
