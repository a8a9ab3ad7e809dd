package emulator

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const contextClaimsKey = "caller_claims"

const (
	rejectedTokenLimit  = 20
	rejectedTokenWindow = time.Minute
)

func currentClaims(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(contextClaimsKey).(*Claims)
	return claims
}

// AuthRequired accepts "Authorization: Bearer <jwt>". An address that keeps
// presenting forged or malformed tokens is locked out for the rest of the window.
// Expired tokens are refused without counting against the address.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	address := clientAddress(c)
	now := time.Now()
	if handler.rejections.lockedOut(address, now) {
		return apiError(c, fiber.StatusTooManyRequests, "too many rejected tokens")
	}

	rawToken, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		handler.rejections.record(address, now)
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	claims, err := ParseToken(handler.secretKey, rawToken)
	if errors.Is(err, ErrTokenExpired) {
		return apiError(c, fiber.StatusUnauthorized, err.Error())
	}
	if err != nil {
		handler.rejections.record(address, now)
		return apiError(c, fiber.StatusUnauthorized, err.Error())
	}

	handler.rejections.forget(address)
	c.Locals(contextClaimsKey, claims)
	return c.Next()
}

// ServiceOnly guards the routes that span every user.
func (handler *Handler) ServiceOnly(c *fiber.Ctx) error {
	if !currentClaims(c).IsService() {
		return apiError(c, fiber.StatusForbidden, "service token required")
	}
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func clientAddress(c *fiber.Ctx) string {
	if address := strings.TrimSpace(c.IP()); address != "" {
		return address
	}
	return "unknown"
}

// tokenRejections counts rejected tokens per client address in fixed windows
// that open with the first rejection.
type tokenRejections struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]rejectionTally
}

type rejectionTally struct {
	since time.Time
	count int
}

func newTokenRejections(limit int, window time.Duration) *tokenRejections {
	return &tokenRejections{
		limit:   limit,
		window:  window,
		clients: make(map[string]rejectionTally),
	}
}

func (rejections *tokenRejections) lockedOut(address string, now time.Time) bool {
	rejections.mu.Lock()
	defer rejections.mu.Unlock()

	tally, ok := rejections.current(address, now)
	return ok && tally.count >= rejections.limit
}

func (rejections *tokenRejections) record(address string, now time.Time) {
	rejections.mu.Lock()
	defer rejections.mu.Unlock()

	tally, ok := rejections.current(address, now)
	if !ok {
		tally = rejectionTally{since: now}
	}
	tally.count++
	rejections.clients[address] = tally
}

func (rejections *tokenRejections) forget(address string) {
	rejections.mu.Lock()
	defer rejections.mu.Unlock()
	delete(rejections.clients, address)
}

// current returns the tally of the open window, dropping a closed one.
func (rejections *tokenRejections) current(address string, now time.Time) (rejectionTally, bool) {
	tally, ok := rejections.clients[address]
	if !ok {
		return rejectionTally{}, false
	}
	if now.Sub(tally.since) >= rejections.window {
		delete(rejections.clients, address)
		return rejectionTally{}, false
	}
	return tally, true
}
