package model

// ValidatePromotionRequest is the DTO for POST /api/promotions/validate.
type ValidatePromotionRequest struct {
	Code         string   `json:"code" validate:"required,notblank,max=64"`
	ServiceIDs   []string `json:"serviceIds" validate:"max=50,dive,max=100"`
	LocationSlug string   `json:"locationSlug" validate:"max=100"`
	CustomerType string   `json:"customerType" validate:"required,customertype"`
	OrderValue   *Money   `json:"orderValue" validate:"required,gte=0,lte=9999999999.99"`
}

// ValidatePromotionResponse is the API response for a validation attempt.
type ValidatePromotionResponse struct {
	Valid          bool              `json:"valid"`
	Promotion      *PromotionSummary `json:"promotion,omitempty"`
	DiscountAmount *Money            `json:"discountAmount,omitempty"`
	FreeService    bool              `json:"freeService,omitempty"`
	FreeServiceID  string            `json:"freeServiceId,omitempty"`
	Reason         Reason            `json:"reason,omitempty"`
	Error          string            `json:"error,omitempty"`
	Suggestion     string            `json:"suggestion,omitempty"`
}

// ListPromotionsQuery holds the query parameters for GET /api/promotions.
type ListPromotionsQuery struct {
	Location     string `query:"location" validate:"max=100"`
	CustomerType string `query:"customerType" validate:"omitempty,customertype"`
}

// PromotionSummary is the display form of a promotion sent to clients.
type PromotionSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Badge       string `json:"badge"`
	Code        string `json:"code,omitempty"`
	BannerText  string `json:"bannerText,omitempty"`
	ExpiresText string `json:"expiresText"`
}

// ListPromotionsResponse is the API response for GET /api/promotions.
type ListPromotionsResponse struct {
	Promotions []PromotionSummary `json:"promotions"`
}

// ValidationAttempt is an audit record of a single validation request.
type ValidationAttempt struct {
	Code           string
	PromotionID    string
	Valid          bool
	Reason         Reason
	LocationSlug   string
	CustomerType   string
	OrderValue     Money
	DiscountAmount Money
}
