// Package catalog holds the compiled-in promotion table and service prices.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
	"github.com/fairyhunter13/landscape-promotions/internal/promotion"
)

// Service identifiers shared with the site's service pages.
const (
	ServiceLawnMowing      = "lawn-mowing"
	ServiceMulching        = "mulching"
	ServiceLeafRemoval     = "leaf-removal"
	ServiceAeration        = "lawn-aeration"
	ServiceHedgeTrimming   = "hedge-trimming"
	ServiceSpringCleanup   = "spring-cleanup"
	ServiceSnowRemoval     = "snow-removal"
	ServiceLandscapeDesign = "landscape-design"
)

// Location slugs served by the business.
const (
	LocationMapleGrove  = "maple-grove"
	LocationPlymouth    = "plymouth"
	LocationWayzata     = "wayzata"
	LocationEdenPrairie = "eden-prairie"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func endOf(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	return &t
}

// Promotions returns a fresh copy of the static promotion records.
func Promotions() []model.Promotion {
	return []model.Promotion{
		{
			ID:           "site-free-estimate",
			Name:         "Free On-Site Estimates",
			Description:  "Every project starts with a free walk-through and written quote.",
			BannerText:   "Free estimates on every landscaping project",
			Discount:     model.Discount{Kind: model.DiscountFixedAmount, Value: decimal.Zero},
			BadgeText:    "FREE ESTIMATE",
			PriorityRank: 1,
		},
		{
			ID:          "spring-2027",
			Code:        "SPRING20",
			Name:        "Spring Refresh",
			Description: "Book early: 20% off any service booked between October and Memorial Day.",
			BannerText:  "Book spring early: 20% off with SPRING20",
			Discount:    model.Discount{Kind: model.DiscountPercentage, Value: decimal.NewFromInt(20)},
			Window:      model.Window{StartsAt: date(2026, time.October, 1), EndsAt: endOf(2027, time.May, 31)},
		},
		{
			ID:            "fall-cleanup-2026",
			Code:          "FALLCLEAN25",
			Name:          "Fall Cleanup",
			Description:   "$25 off leaf removal or aeration orders of $150 or more.",
			BannerText:    "$25 off fall cleanup with FALLCLEAN25",
			Discount:      model.Discount{Kind: model.DiscountFixedAmount, Value: decimal.NewFromInt(25)},
			ServiceIDs:    []string{ServiceLeafRemoval, ServiceAeration},
			MinOrderValue: model.MoneyFromFloat(150),
			Window:        model.Window{StartsAt: date(2026, time.September, 1), EndsAt: endOf(2026, time.November, 30)},
		},
		{
			ID:           "new-yard-mow",
			Code:         "NEWYARD",
			Name:         "First Mow Free",
			Description:  "New customers get their first lawn mowing free with a seasonal plan.",
			Discount:     model.Discount{Kind: model.DiscountFreeService, FreeServiceID: ServiceLawnMowing},
			ServiceIDs:   []string{ServiceLawnMowing},
			CustomerType: model.CustomerNew,
			PriorityRank: 2,
		},
		{
			ID:           "welcome-10",
			Code:         "WELCOME10",
			Name:         "Welcome Discount",
			Description:  "10% off your first project with us.",
			Discount:     model.Discount{Kind: model.DiscountPercentage, Value: decimal.NewFromInt(10)},
			CustomerType: model.CustomerNew,
		},
		{
			ID:            "maple-grove-mulch",
			Code:          "MULCH10",
			Name:          "Maple Grove Mulch Special",
			Description:   "$10 off mulch installation for Maple Grove homes.",
			Discount:      model.Discount{Kind: model.DiscountFixedAmount, Value: decimal.NewFromInt(10)},
			ServiceIDs:    []string{ServiceMulching},
			LocationSlugs: []string{LocationMapleGrove},
		},
		{
			ID:            "lakeside-hedges",
			Code:          "LAKESIDE15",
			Name:          "Lakeside Hedge Trim",
			Description:   "15% off hedge trimming in Wayzata and Plymouth.",
			BannerText:    "Lakeside neighbors save 15% on hedge trimming",
			Discount:      model.Discount{Kind: model.DiscountPercentage, Value: decimal.NewFromInt(15)},
			ServiceIDs:    []string{ServiceHedgeTrimming},
			LocationSlugs: []string{LocationWayzata, LocationPlymouth},
		},
		{
			ID:            "loyal-snow",
			Code:          "SNOWLOYAL",
			Name:          "Returning Customer Snow Plan",
			Description:   "Returning customers take $50 off a full-season snow removal plan.",
			Discount:      model.Discount{Kind: model.DiscountFixedAmount, Value: decimal.NewFromInt(50)},
			ServiceIDs:    []string{ServiceSnowRemoval},
			CustomerType:  model.CustomerExisting,
			MinOrderValue: model.MoneyFromFloat(400),
			Window:        model.Window{StartsAt: date(2026, time.October, 1), EndsAt: endOf(2027, time.January, 31)},
		},
		{
			ID:            "design-consult",
			Code:          "DESIGNFREE",
			Name:          "Free Design Consultation",
			Description:   "Free landscape design consultation with any install over $2,000 in Eden Prairie.",
			Discount:      model.Discount{Kind: model.DiscountFreeService, FreeServiceID: ServiceLandscapeDesign},
			LocationSlugs: []string{LocationEdenPrairie},
			MinOrderValue: model.MoneyFromFloat(2000),
		},
	}
}

// ServicePrices returns the base price of each service, used to value
// free-service promotions.
func ServicePrices() promotion.PriceList {
	return promotion.PriceList{
		ServiceLawnMowing:    model.MoneyFromFloat(45),
		ServiceMulching:      model.MoneyFromFloat(180),
		ServiceLeafRemoval:   model.MoneyFromFloat(150),
		ServiceAeration:      model.MoneyFromFloat(95),
		ServiceHedgeTrimming: model.MoneyFromFloat(120),
		ServiceSpringCleanup: model.MoneyFromFloat(225),
		ServiceSnowRemoval:   model.MoneyFromFloat(60),
	}
}

// Table builds the static promotion table.
func Table() *promotion.Table {
	return promotion.MustNewTable(Promotions())
}
