package discord

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// userLimiter: un token cada `window` por usuario, para los clicks.
type userLimiter struct {
	mu     sync.Mutex
	every  rate.Limit
	perUID map[string]*rate.Limiter
}

func newUserLimiter(window time.Duration) *userLimiter {
	return &userLimiter{every: rate.Every(window), perUID: map[string]*rate.Limiter{}}
}

func (l *userLimiter) Allow(userID string) bool {
	l.mu.Lock()
	lim, ok := l.perUID[userID]
	if !ok {
		lim = rate.NewLimiter(l.every, 1)
		l.perUID[userID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
