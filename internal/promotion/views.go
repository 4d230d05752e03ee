package promotion

import (
	"cmp"
	"iter"
	"slices"
	"time"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
)

// DefaultDisplayLimit caps combined listings.
const DefaultDisplayLimit = 5

// Banners yields active promotions that carry banner text.
func (t *Table) Banners(now time.Time) iter.Seq[model.Promotion] {
	return t.view(now, func(p model.Promotion) bool {
		return p.BannerText != ""
	})
}

// ForLocation yields active promotions explicitly scoped to slug.
// Promotions without a location restriction are not considered scoped.
func (t *Table) ForLocation(slug string, now time.Time) iter.Seq[model.Promotion] {
	return t.view(now, func(p model.Promotion) bool {
		return len(p.LocationSlugs) > 0 && contains(p.LocationSlugs, slug)
	})
}

// ForNewCustomers yields active promotions restricted to new customers.
func (t *Table) ForNewCustomers(now time.Time) iter.Seq[model.Promotion] {
	return t.view(now, func(p model.Promotion) bool {
		return p.CustomerType == model.CustomerNew
	})
}

// view filters active promotions and yields them in display order.
// Each range over the returned sequence re-reads the table.
func (t *Table) view(now time.Time, keep func(model.Promotion) bool) iter.Seq[model.Promotion] {
	return func(yield func(model.Promotion) bool) {
		matched := make([]model.Promotion, 0, len(t.promotions))
		for _, p := range t.promotions {
			if p.Window.Contains(now) && keep(p) {
				matched = append(matched, p)
			}
		}
		slices.SortStableFunc(matched, compareDisplayOrder)
		for _, p := range matched {
			if !yield(p) {
				return
			}
		}
	}
}

// compareDisplayOrder puts ranked promotions first (lowest rank wins), then
// the most recently started, then orders by ID.
func compareDisplayOrder(a, b model.Promotion) int {
	switch {
	case a.PriorityRank > 0 && b.PriorityRank > 0:
		if c := cmp.Compare(a.PriorityRank, b.PriorityRank); c != 0 {
			return c
		}
	case a.PriorityRank > 0:
		return -1
	case b.PriorityRank > 0:
		return 1
	}

	as, bs := a.Window.StartsAt, b.Window.StartsAt
	switch {
	case as != nil && bs != nil:
		if c := bs.Compare(*as); c != 0 {
			return c
		}
	case as != nil:
		return -1
	case bs != nil:
		return 1
	}
	return cmp.Compare(a.ID, b.ID)
}

// Collect drains seqs in order, keeping the first occurrence of each ID,
// and stops once limit promotions have been gathered.
func Collect(limit int, seqs ...iter.Seq[model.Promotion]) []model.Promotion {
	if limit <= 0 {
		return []model.Promotion{}
	}
	out := make([]model.Promotion, 0, limit)
	seen := make(map[string]struct{}, limit)
	for _, seq := range seqs {
		for p := range seq {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}

// Filter yields the elements of seq for which keep returns true.
func Filter(seq iter.Seq[model.Promotion], keep func(model.Promotion) bool) iter.Seq[model.Promotion] {
	return func(yield func(model.Promotion) bool) {
		for p := range seq {
			if keep(p) && !yield(p) {
				return
			}
		}
	}
}

// CompatibleWith reports whether p could apply to a visitor in location with
// the given customer type. Empty arguments are unconstrained.
func CompatibleWith(p model.Promotion, location string, customer model.CustomerType) bool {
	if location != "" && len(p.LocationSlugs) > 0 && !contains(p.LocationSlugs, location) {
		return false
	}
	if customer != "" && !customerMatches(p.CustomerType, customer) {
		return false
	}
	return true
}
