package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/landscape-promotions/internal/model"
	"github.com/fairyhunter13/landscape-promotions/internal/service"
	"github.com/fairyhunter13/landscape-promotions/internal/validator"
)

// mockPromotionService is a mock implementation of PromotionServiceInterface.
type mockPromotionService struct {
	validateFn func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error)
	listFn     func(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error)
}

func (m *mockPromotionService) Validate(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
	if m.validateFn != nil {
		return m.validateFn(ctx, req)
	}
	return &model.ValidatePromotionResponse{}, nil
}

func (m *mockPromotionService) List(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error) {
	if m.listFn != nil {
		return m.listFn(ctx, q)
	}
	return &model.ListPromotionsResponse{Promotions: []model.PromotionSummary{}}, nil
}

func setupTestApp(mockSvc *mockPromotionService) *fiber.App {
	app := fiber.New()
	h := NewPromotionHandler(mockSvc, validator.New())
	app.Post("/api/promotions/validate", h.ValidatePromotion)
	app.Get("/api/promotions", h.ListPromotions)
	return app
}

func postValidate(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/promotions/validate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var result map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result["error"]
}

func TestValidatePromotion_Success(t *testing.T) {
	var captured *model.ValidatePromotionRequest
	mockSvc := &mockPromotionService{
		validateFn: func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
			captured = req
			amount := model.MoneyFromFloat(40)
			return &model.ValidatePromotionResponse{
				Valid: true,
				Promotion: &model.PromotionSummary{
					ID:    "spring",
					Name:  "Spring Refresh",
					Badge: "20% OFF",
					Code:  "SPRING20",
				},
				DiscountAmount: &amount,
			}, nil
		},
	}
	app := setupTestApp(mockSvc)

	body := `{"code": "spring20", "serviceIds": ["lawn-mowing"], "locationSlug": "plymouth", "customerType": "new", "orderValue": 200}`
	resp := postValidate(t, app, body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NotNil(t, captured)
	assert.Equal(t, "spring20", captured.Code)
	assert.Equal(t, []string{"lawn-mowing"}, captured.ServiceIDs)
	assert.Equal(t, "plymouth", captured.LocationSlug)
	assert.Equal(t, "new", captured.CustomerType)
	assert.Equal(t, "200.00", captured.OrderValue.String())

	raw, _ := io.ReadAll(resp.Body)
	var result map[string]any
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, true, result["valid"])
	assert.Equal(t, float64(40), result["discountAmount"])
	promo, ok := result["promotion"].(map[string]any)
	require.True(t, ok, "promotion should be an object")
	assert.Equal(t, "20% OFF", promo["badge"])
	assert.NotContains(t, result, "error", "valid responses omit error")
	assert.NotContains(t, result, "suggestion")
}

func TestValidatePromotion_RejectedCodeIsStillOK(t *testing.T) {
	mockSvc := &mockPromotionService{
		validateFn: func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
			return &model.ValidatePromotionResponse{
				Valid:      false,
				Reason:     model.ReasonCodeNotRecognized,
				Error:      "code not recognized",
				Suggestion: "SPRING20",
			}, nil
		},
	}
	app := setupTestApp(mockSvc)

	resp := postValidate(t, app, `{"code": "SPRNG20", "customerType": "new", "orderValue": 200}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, false, result["valid"])
	assert.Equal(t, "code_not_recognized", result["reason"])
	assert.Equal(t, "code not recognized", result["error"])
	assert.Equal(t, "SPRING20", result["suggestion"])
	assert.NotContains(t, result, "discountAmount")
	assert.NotContains(t, result, "promotion")
}

func TestValidatePromotion_OrderValueAsString(t *testing.T) {
	var captured *model.ValidatePromotionRequest
	mockSvc := &mockPromotionService{
		validateFn: func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
			captured = req
			return &model.ValidatePromotionResponse{}, nil
		},
	}
	app := setupTestApp(mockSvc)

	resp := postValidate(t, app, `{"code": "SPRING20", "customerType": "existing", "orderValue": "149.50"}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, captured)
	assert.Equal(t, "149.50", captured.OrderValue.String())
}

func TestValidatePromotion_ZeroOrderValueAccepted(t *testing.T) {
	called := false
	mockSvc := &mockPromotionService{
		validateFn: func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
			called = true
			return &model.ValidatePromotionResponse{}, nil
		},
	}
	app := setupTestApp(mockSvc)

	resp := postValidate(t, app, `{"code": "SPRING20", "customerType": "new", "orderValue": 0}`)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, called, "zero order value must reach the service")
}

func TestValidatePromotion_InputErrors(t *testing.T) {
	testCases := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "missing_code",
			body:     `{"customerType": "new", "orderValue": 10}`,
			expected: "invalid request: code is required",
		},
		{
			name:     "whitespace_code",
			body:     `{"code": "   ", "customerType": "new", "orderValue": 10}`,
			expected: "invalid request: code is required",
		},
		{
			name:     "missing_customer_type",
			body:     `{"code": "SPRING20", "orderValue": 10}`,
			expected: "invalid request: customerType is required",
		},
		{
			name:     "unknown_customer_type",
			body:     `{"code": "SPRING20", "customerType": "vip", "orderValue": 10}`,
			expected: "invalid request: customerType must be new or existing",
		},
		{
			name:     "missing_order_value",
			body:     `{"code": "SPRING20", "customerType": "new"}`,
			expected: "invalid request: orderValue is required",
		},
		{
			name:     "negative_order_value",
			body:     `{"code": "SPRING20", "customerType": "new", "orderValue": -5}`,
			expected: "invalid request: orderValue must not be negative",
		},
		{
			name:     "code_too_long",
			body:     fmt.Sprintf(`{"code": "%s", "customerType": "new", "orderValue": 10}`, bytes.Repeat([]byte("A"), 65)),
			expected: "invalid request: code exceeds maximum length of 64",
		},
		{
			name:     "order_value_huge_exponent",
			body:     `{"code": "SPRING20", "customerType": "new", "orderValue": 1e3000000}`,
			expected: "invalid request: orderValue is out of range",
		},
		{
			name:     "order_value_huge_exponent_string",
			body:     `{"code": "SPRING20", "customerType": "new", "orderValue": "1e400"}`,
			expected: "invalid request: orderValue is out of range",
		},
		{
			name:     "order_value_above_maximum",
			body:     `{"code": "SPRING20", "customerType": "new", "orderValue": 10000000000}`,
			expected: "invalid request: orderValue is out of range",
		},
		{
			name:     "malformed_json",
			body:     `{not valid json}`,
			expected: "invalid request body",
		},
		{
			name:     "non_numeric_order_value",
			body:     `{"code": "SPRING20", "customerType": "new", "orderValue": "lots"}`,
			expected: "invalid request body",
		},
		{
			name:     "non_string_code",
			body:     `{"code": 20, "customerType": "new", "orderValue": 10}`,
			expected: "invalid request body",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			mockSvc := &mockPromotionService{
				validateFn: func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
					called = true
					return nil, nil
				},
			}
			app := setupTestApp(mockSvc)

			resp := postValidate(t, app, tc.body)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tc.expected, decodeError(t, resp), "Exact error message required")
			assert.False(t, called, "service must not be called for invalid input")
		})
	}
}

func TestValidatePromotion_ServiceInvalidRequest(t *testing.T) {
	mockSvc := &mockPromotionService{
		validateFn: func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
			return nil, fmt.Errorf("%w: unknown customer type", service.ErrInvalidRequest)
		},
	}
	app := setupTestApp(mockSvc)

	resp := postValidate(t, app, `{"code": "SPRING20", "customerType": "new", "orderValue": 10}`)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: unknown customer type", decodeError(t, resp))
}

func TestValidatePromotion_InternalServerError(t *testing.T) {
	mockSvc := &mockPromotionService{
		validateFn: func(ctx context.Context, req *model.ValidatePromotionRequest) (*model.ValidatePromotionResponse, error) {
			return nil, errors.New("table unavailable")
		},
	}
	app := setupTestApp(mockSvc)

	resp := postValidate(t, app, `{"code": "SPRING20", "customerType": "new", "orderValue": 10}`)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, resp))
}

func TestListPromotions_Success(t *testing.T) {
	var captured *model.ListPromotionsQuery
	mockSvc := &mockPromotionService{
		listFn: func(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error) {
			captured = q
			return &model.ListPromotionsResponse{
				Promotions: []model.PromotionSummary{
					{ID: "mulch", Name: "Mulch Special", Badge: "$10 OFF", Code: "MULCH10"},
					{ID: "banner", Name: "Free Estimates", Badge: "FREE ESTIMATE", BannerText: "Free estimates"},
				},
			}, nil
		},
	}
	app := setupTestApp(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/promotions?location=maple-grove&customerType=new", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, captured)
	assert.Equal(t, "maple-grove", captured.Location)
	assert.Equal(t, "new", captured.CustomerType)

	var result model.ListPromotionsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result.Promotions, 2)
	assert.Equal(t, "mulch", result.Promotions[0].ID)
	assert.Equal(t, "$10 OFF", result.Promotions[0].Badge)
}

func TestListPromotions_JSONFieldNames(t *testing.T) {
	mockSvc := &mockPromotionService{
		listFn: func(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error) {
			return &model.ListPromotionsResponse{
				Promotions: []model.PromotionSummary{
					{ID: "fall", Name: "Fall", Badge: "$25 OFF", Code: "FALL25", BannerText: "Fall savings", ExpiresText: "Ends in 3 days"},
				},
			}, nil
		},
	}
	app := setupTestApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/promotions", nil))
	require.NoError(t, err)

	var raw map[string][]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	require.Len(t, raw["promotions"], 1)

	entry := raw["promotions"][0]
	for _, key := range []string{"id", "name", "description", "badge", "code", "bannerText", "expiresText"} {
		assert.Contains(t, entry, key)
	}
	assert.NotContains(t, entry, "banner_text")
}

func TestListPromotions_EmptyIsArray(t *testing.T) {
	app := setupTestApp(&mockPromotionService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/promotions", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"promotions": []}`, string(body))
}

func TestListPromotions_InvalidCustomerType(t *testing.T) {
	called := false
	mockSvc := &mockPromotionService{
		listFn: func(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error) {
			called = true
			return nil, nil
		},
	}
	app := setupTestApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/promotions?customerType=vip", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid request: customerType must be new or existing", decodeError(t, resp))
	assert.False(t, called, "service must not be called for invalid input")
}

func TestListPromotions_InternalServerError(t *testing.T) {
	mockSvc := &mockPromotionService{
		listFn: func(ctx context.Context, q *model.ListPromotionsQuery) (*model.ListPromotionsResponse, error) {
			return nil, errors.New("boom")
		},
	}
	app := setupTestApp(mockSvc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/promotions", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", decodeError(t, resp))
}
