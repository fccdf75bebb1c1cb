package httpapi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// ipLimiter is a sliding-window limiter keyed by client IP.
type ipLimiter struct {
	mu      sync.Mutex
	events  map[string][]time.Time
	limit   int
	window  time.Duration
	now     func() time.Time
	lastGC  time.Time
	gcEvery time.Duration
}

func newIPLimiter(limit int, window time.Duration) *ipLimiter {
	return &ipLimiter{
		events:  make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		now:     time.Now,
		gcEvery: window,
	}
}

// allow records an event for key and reports whether it is within the limit.
// When refused it also returns how long until the oldest event leaves the window.
func (l *ipLimiter) allow(key string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	cut := now.Add(-l.window)
	l.gc(now, cut)

	kept := l.events[key][:0]
	for _, t := range l.events[key] {
		if t.After(cut) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.limit {
		l.events[key] = kept
		return false, kept[0].Add(l.window).Sub(now)
	}
	l.events[key] = append(kept, now)
	return true, 0
}

// gc drops idle keys once per window so the map does not grow with every client seen.
func (l *ipLimiter) gc(now, cut time.Time) {
	if now.Sub(l.lastGC) < l.gcEvery {
		return
	}
	l.lastGC = now
	for key, events := range l.events {
		if len(events) == 0 || !events[len(events)-1].After(cut) {
			delete(l.events, key)
		}
	}
}

func (l *ipLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := l.allow(clientIP(r))
		if !ok {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			writeError(w, http.StatusTooManyRequests, "Too many requests",
				"Too many requests from this IP, please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys on the connection address. Forwarding headers are ignored since
// any client can set them.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
