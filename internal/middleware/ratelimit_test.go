package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimitedApp(rps float64, burst int) *fiber.App {
	app := fiber.New()
	app.Use(RateLimit(rps, burst))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimit_AllowsBurstThenRejects(t *testing.T) {
	// A tiny refill rate keeps the bucket empty for the duration of the test
	app := setupLimitedApp(0.001, 3)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d should pass", i+1)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimit_DisabledWhenRPSNotPositive(t *testing.T) {
	app := setupLimitedApp(0, 1)

	for i := 0; i < 20; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestClientLimiter_SeparateBuckets(t *testing.T) {
	l := NewClientLimiter(0.001, 1)

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "other clients keep their own budget")
}

func TestClientLimiter_EvictsLeastRecentWhenFull(t *testing.T) {
	l := NewClientLimiter(0.001, 1)

	for i := 0; i < maxTrackedClients; i++ {
		l.Allow("client-" + strconv.Itoa(i))
	}
	require.Len(t, l.clients, maxTrackedClients)

	// Touch client-0 so client-1 becomes the oldest entry
	assert.False(t, l.Allow("client-0"))

	assert.True(t, l.Allow("newcomer"))
	assert.Len(t, l.clients, maxTrackedClients)
	assert.NotContains(t, l.clients, "client-1")

	assert.False(t, l.Allow("client-0"), "existing clients keep their spent budget")
	assert.False(t, l.Allow("client-2"), "only one client is evicted")
	assert.True(t, l.Allow("client-1"), "the evicted client starts with a fresh bucket")
}

func TestClientLimiter_RotatingClientsCannotResetOthers(t *testing.T) {
	l := NewClientLimiter(0.001, 1)

	require.True(t, l.Allow("victim"))
	require.False(t, l.Allow("victim"))

	for i := 0; i < maxTrackedClients*2; i++ {
		l.Allow("rotating-" + strconv.Itoa(i))
		// An active client is never the oldest entry, however many keys rotate through
		if i%100 == 0 {
			assert.False(t, l.Allow("victim"))
		}
	}
}
