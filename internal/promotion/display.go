package promotion

import (
	"fmt"
	"time"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
)

const day = 24 * time.Hour

// FormatDisplay derives the badge and expiry text for p as of now.
func FormatDisplay(p model.Promotion, now time.Time) model.DisplayPayload {
	return model.DisplayPayload{
		Badge:       badge(p),
		ExpiresText: expiresText(p.Window, now),
	}
}

func badge(p model.Promotion) string {
	if p.BadgeText != "" {
		return p.BadgeText
	}
	switch p.Discount.Kind {
	case model.DiscountPercentage:
		return p.Discount.Value.String() + "% OFF"
	case model.DiscountFixedAmount:
		v := p.Discount.Value
		if v.Equal(v.Truncate(0)) {
			return "$" + v.Truncate(0).String() + " OFF"
		}
		return "$" + v.StringFixed(2) + " OFF"
	case model.DiscountFreeService:
		return "FREE SERVICE"
	default:
		return ""
	}
}

func expiresText(w model.Window, now time.Time) string {
	if w.EndsAt == nil {
		return ""
	}
	remaining := w.EndsAt.Sub(now)
	switch {
	case remaining < 0:
		return "Expired"
	case remaining < day:
		return "Ends today"
	}
	days := int(remaining / day)
	if days == 1 {
		return "Ends in 1 day"
	}
	return fmt.Sprintf("Ends in %d days", days)
}
