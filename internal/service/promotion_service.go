package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
	"github.com/fairyhunter13/landscape-promotions/internal/promotion"
)

// auditTimeout bounds how long a validation waits on the audit insert.
const auditTimeout = 2 * time.Second

// AttemptRecorder persists validation attempts.
type AttemptRecorder interface {
	Record(ctx context.Context, a *model.ValidationAttempt) error
}

// MetricsRecorder receives validation and listing observations.
type MetricsRecorder interface {
	RecordValidation(outcome string, seconds float64)
	RecordListing()
}

// PromotionService provides promotion validation and listing for the HTTP layer.
type PromotionService struct {
	evaluator    *promotion.Evaluator
	attempts     AttemptRecorder
	metrics      MetricsRecorder
	displayLimit int
	now          func() time.Time
}

// NewPromotionService creates a new PromotionService.
// attempts may be nil, in which case validations are not recorded.
func NewPromotionService(evaluator *promotion.Evaluator, attempts AttemptRecorder, metrics MetricsRecorder, displayLimit int) *PromotionService {
	return NewPromotionServiceWithClock(evaluator, attempts, metrics, displayLimit, time.Now)
}

// NewPromotionServiceWithClock creates a PromotionService with a custom clock.
// Primarily used for testing.
func NewPromotionServiceWithClock(evaluator *promotion.Evaluator, attempts AttemptRecorder, metrics MetricsRecorder, displayLimit int, now func() time.Time) *PromotionService {
	if displayLimit <= 0 {
		displayLimit = promotion.DefaultDisplayLimit
	}
	return &PromotionService{
		evaluator:    evaluator,
		attempts:     attempts,
		metrics:      metrics,
		displayLimit: displayLimit,
		now:          now,
	}
}

// Validate checks a promotion code against the order described by req.
// Domain rejections come back as a response with Valid=false.
// Returns ErrInvalidRequest (wrapped) when the input cannot be evaluated.
func (s *PromotionService) Validate(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
	if req == nil || req.OrderValue == nil {
		return nil, ErrInvalidRequest
	}

	started := time.Now()
	now := s.now()

	evalCtx := model.EvaluationContext{
		ServiceIDs:   req.ServiceIDs,
		LocationSlug: strings.TrimSpace(req.LocationSlug),
		CustomerType: parseCustomerType(req.CustomerType),
		OrderValue:   *req.OrderValue,
	}

	result, err := s.evaluator.Validate(req.Code, evalCtx, now)
	if err != nil {
		if errors.Is(err, promotion.ErrEmptyCode) || errors.Is(err, promotion.ErrInvalidContext) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
		}
		return nil, fmt.Errorf("validate promotion: %w", err)
	}

	outcome := "valid"
	if !result.Valid {
		outcome = string(result.Reason)
	}
	if s.metrics != nil {
		s.metrics.RecordValidation(outcome, time.Since(started).Seconds())
	}

	s.recordAttempt(ctx, req, evalCtx, result)

	resp := &model.ValidatePromotionResponse{
		Valid:      result.Valid,
		Reason:     result.Reason,
		Error:      result.Error,
		Suggestion: result.Suggestion,
	}
	if result.Valid {
		summary := summarize(*result.Promotion, now)
		amount := result.DiscountAmount
		resp.Promotion = &summary
		resp.DiscountAmount = &amount
		resp.FreeService = result.FreeService
		resp.FreeServiceID = result.FreeServiceID
	}
	return resp, nil
}

func (s *PromotionService) recordAttempt(ctx context.Context, req *model.ValidatePromotionRequest, evalCtx model.EvaluationContext, result model.ValidationResult) {
	if s.attempts == nil {
		return
	}

	attempt := &model.ValidationAttempt{
		Code:           strings.TrimSpace(req.Code),
		Valid:          result.Valid,
		Reason:         result.Reason,
		LocationSlug:   evalCtx.LocationSlug,
		CustomerType:   string(evalCtx.CustomerType),
		OrderValue:     evalCtx.OrderValue,
		DiscountAmount: result.DiscountAmount,
	}
	if result.Promotion != nil {
		attempt.PromotionID = result.Promotion.ID
	}

	auditCtx, cancel := context.WithTimeout(ctx, auditTimeout)
	defer cancel()

	if err := s.attempts.Record(auditCtx, attempt); err != nil {
		log.Warn().
			Err(err).
			Str("code", attempt.Code).
			Bool("valid", attempt.Valid).
			Msg("failed to record validation attempt")
	}
}

// List returns the promotions to display for a visitor, most relevant first:
// location-scoped, then new-customer offers, then site banners.
// Promotions that cannot apply to the visitor are dropped.
func (s *PromotionService) List(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error) {
	if q == nil {
		q = &model.ListPromotionsQuery{}
	}

	location := strings.TrimSpace(q.Location)
	var customer model.CustomerType
	if strings.TrimSpace(q.CustomerType) != "" {
		customer = parseCustomerType(q.CustomerType)
		if customer != model.CustomerNew && customer != model.CustomerExisting {
			return nil, fmt.Errorf("%w: unknown customer type %q", ErrInvalidRequest, q.CustomerType)
		}
	}

	now := s.now()
	table := s.evaluator.Table()

	var views []iter.Seq[model.Promotion]
	if location != "" {
		views = append(views, table.ForLocation(location, now))
	}
	if customer == model.CustomerNew {
		views = append(views, table.ForNewCustomers(now))
	}
	views = append(views, table.Banners(now))

	compatible := func(p model.Promotion) bool {
		return promotion.CompatibleWith(p, location, customer)
	}
	for i, v := range views {
		views[i] = promotion.Filter(v, compatible)
	}

	promos := promotion.Collect(s.displayLimit, views...)

	summaries := make([]model.PromotionSummary, 0, len(promos))
	for _, p := range promos {
		summaries = append(summaries, summarize(p, now))
	}

	if s.metrics != nil {
		s.metrics.RecordListing()
	}

	log.Debug().
		Str("location", location).
		Str("customer_type", string(customer)).
		Int("count", len(summaries)).
		Msg("promotions listed")

	return &model.ListPromotionsResponse{Promotions: summaries}, nil
}

func parseCustomerType(s string) model.CustomerType {
	return model.CustomerType(strings.ToLower(strings.TrimSpace(s)))
}

func summarize(p model.Promotion, now time.Time) model.PromotionSummary {
	display := promotion.FormatDisplay(p, now)
	return model.PromotionSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Badge:       display.Badge,
		Code:        p.Code,
		BannerText:  p.BannerText,
		ExpiresText: display.ExpiresText,
	}
}
