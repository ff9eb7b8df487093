package bot

import (
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"golang.org/x/time/rate"
)

// idle limiters are dropped after this long
const throttleIdleTTL = 10 * time.Minute

// Throttle limits how often a single chat can ask for a hint.
type Throttle struct {
	perMinute int

	mu       sync.Mutex // guards the lookup and creation of a chat's limiter
	limiters *ttlworker.Cache[int64, *rate.Limiter]
}

// NewThrottle allows perMinute hints per chat. Zero or less disables it.
func NewThrottle(perMinute int) *Throttle {
	if perMinute <= 0 {
		return &Throttle{}
	}
	return &Throttle{
		perMinute: perMinute,
		limiters:  ttlworker.NewCache[int64, *rate.Limiter](throttleIdleTTL),
	}
}

// Allow reports whether chatID may request another hint now.
func (t *Throttle) Allow(chatID int64) bool {
	if t == nil || t.perMinute <= 0 {
		return true
	}

	t.mu.Lock()
	limiter := t.limiters.Get(chatID)
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(t.perMinute)), t.perMinute)
		t.limiters.Set(chatID, limiter)
	}
	t.mu.Unlock()

	return limiter.Allow()
}
