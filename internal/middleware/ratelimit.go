package middleware

import (
	"container/list"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map. Past it the least recently seen
// client is evicted.
const maxTrackedClients = 10000

type clientEntry struct {
	key     string
	limiter *rate.Limiter
}

// ClientLimiter hands out one token bucket per client key.
type ClientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*list.Element
	recent  *list.List // front is most recently seen
}

// NewClientLimiter creates a limiter allowing rps requests per second per
// client with the given burst.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*list.Element),
		recent:  list.New(),
	}
}

// Allow reports whether the client identified by key may proceed now.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	el, ok := l.clients[key]
	if ok {
		l.recent.MoveToFront(el)
	} else {
		if len(l.clients) >= maxTrackedClients {
			oldest := l.recent.Back()
			l.recent.Remove(oldest)
			delete(l.clients, oldest.Value.(*clientEntry).key)
		}
		el = l.recent.PushFront(&clientEntry{key: key, limiter: rate.NewLimiter(l.limit, l.burst)})
		l.clients[key] = el
	}
	lim := el.Value.(*clientEntry).limiter
	l.mu.Unlock()

	return lim.Allow()
}

// RateLimit rejects requests over the per-IP budget with 429.
// A non-positive rps disables limiting.
func RateLimit(rps float64, burst int) fiber.Handler {
	if rps <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}
	limiter := NewClientLimiter(rps, max(burst, 1))

	return func(c *fiber.Ctx) error {
		if !limiter.Allow(c.IP()) {
			log.Warn().
				Str("request_id", c.GetRespHeader("X-Request-ID")).
				Str("ip", c.IP()).
				Str("path", c.Path()).
				Msg("rate limit exceeded")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
		}
		return c.Next()
	}
}
