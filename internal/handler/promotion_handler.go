package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
	"github.com/fairyhunter13/landscape-promotions/internal/service"
)

const errOrderValueOutOfRange = "invalid request: orderValue is out of range"

// PromotionServiceInterface defines the interface for promotion business logic.
type PromotionServiceInterface interface {
	Validate(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error)
	List(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error)
}

// PromotionHandler handles HTTP requests for promotion operations.
type PromotionHandler struct {
	service   PromotionServiceInterface
	validator *validator.Validate
}

// NewPromotionHandler creates a new PromotionHandler with the given service and validator.
func NewPromotionHandler(svc PromotionServiceInterface, v *validator.Validate) *PromotionHandler {
	return &PromotionHandler{service: svc, validator: v}
}

// formatValidationError converts validator errors to client-facing messages
// using the JSON field names.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			tag := fe.Tag()

			switch field {
			case "Code":
				if tag == "required" || tag == "notblank" {
					return "invalid request: code is required"
				}
				if tag == "max" {
					return "invalid request: code exceeds maximum length of 64"
				}
				return "invalid request: code is invalid"
			case "CustomerType":
				if tag == "required" {
					return "invalid request: customerType is required"
				}
				return "invalid request: customerType must be new or existing"
			case "OrderValue":
				if tag == "required" {
					return "invalid request: orderValue is required"
				}
				if tag == "gte" {
					return "invalid request: orderValue must not be negative"
				}
				if tag == "lte" {
					return errOrderValueOutOfRange
				}
				return "invalid request: orderValue is invalid"
			case "ServiceIDs":
				if tag == "max" {
					return "invalid request: serviceIds has too many entries"
				}
				return "invalid request: serviceIds is invalid"
			case "LocationSlug", "Location":
				return "invalid request: location is invalid"
			default:
				// fe.Field() is the element name for dive errors, e.g. "ServiceIDs[0]"
				if tag == "required" {
					return "invalid request: " + field + " is required"
				}
				if tag == "max" {
					return "invalid request: " + field + " exceeds maximum length"
				}
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}

// ValidatePromotion handles POST /api/promotions/validate requests.
// A rejected code is still a 200 response with "valid": false.
func (h *PromotionHandler) ValidatePromotion(c *fiber.Ctx) error {
	var req model.ValidatePromotionRequest

	if err := c.BodyParser(&req); err != nil {
		if errors.Is(err, model.ErrMoneyOutOfRange) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": errOrderValueOutOfRange})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.Validate(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("code", req.Code).
			Msg("failed to validate promotion")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("code", req.Code).
		Bool("valid", resp.Valid).
		Str("reason", string(resp.Reason)).
		Msg("promotion validated")

	return c.Status(fiber.StatusOK).JSON(resp)
}

// ListPromotions handles GET /api/promotions requests.
func (h *PromotionHandler) ListPromotions(c *fiber.Ctx) error {
	var q model.ListPromotionsQuery

	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid query parameters"})
	}

	if err := h.validator.Struct(q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.List(c.Context(), &q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("failed to list promotions")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(resp)
}
