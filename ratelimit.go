package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// RateLimitResult echoes the applied configuration back to the caller.
// Endpoint and UserID stay nil when the rule is not scoped to one.
type RateLimitResult struct {
	Endpoint *string `json:"endpoint"`
	UserID   *string `json:"userId"`
	Limit    int     `json:"limit"`
	Period   int     `json:"period"`
	Status   string  `json:"status"`
}

type rateLimitRule struct {
	Endpoint *string `json:"endpoint"`
	UserID   *string `json:"userId"`
	Limit    int     `json:"limit"`
	Period   int     `json:"period"`
}

// rateLimitRegistry holds token buckets keyed by (endpoint, userId) scope.
// Rules live only in memory; the store is never touched. An optional defaults
// file can seed and hot-reload rules.
type rateLimitRegistry struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func newRateLimitRegistry() *rateLimitRegistry {
	return &rateLimitRegistry{buckets: make(map[string]*rate.Limiter)}
}

func scopeKey(endpoint, userID string) string {
	return endpoint + "|" + userID
}

// Configure installs (or replaces) the bucket for the given scope and echoes
// the applied values. A rule of limit requests per period seconds refills at
// limit/period per second with a burst of limit.
func (r *rateLimitRegistry) Configure(endpoint, userID *string, limit, period int) RateLimitResult {
	ep, uid := "", ""
	if endpoint != nil {
		ep = *endpoint
	}
	if userID != nil {
		uid = *userID
	}
	r.mu.Lock()
	r.buckets[scopeKey(ep, uid)] = rate.NewLimiter(rate.Limit(float64(limit)/float64(period)), limit)
	r.mu.Unlock()
	return RateLimitResult{
		Endpoint: endpoint,
		UserID:   userID,
		Limit:    limit,
		Period:   period,
		Status:   "Rate limiting configuration successful.",
	}
}

// Allow reports whether a request on endpoint by userID may proceed. The most
// specific configured scope wins: endpoint+user, then user, then endpoint,
// then the global default. With no matching rule the request is admitted.
func (r *rateLimitRegistry) Allow(endpoint, userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range []string{
		scopeKey(endpoint, userID),
		scopeKey("", userID),
		scopeKey(endpoint, ""),
		scopeKey("", ""),
	} {
		if lim, ok := r.buckets[key]; ok {
			return lim.Allow()
		}
	}
	return true
}

// loadFile reads a JSON array of rules and installs each one.
func (r *rateLimitRegistry) loadFile(path string) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		log.Printf("rate limit config %s not loaded: %v", path, err)
		return
	}
	var rules []rateLimitRule
	if err := json.Unmarshal(data, &rules); err != nil {
		log.Printf("rate limit config %s invalid: %v", path, err)
		return
	}
	for _, rule := range rules {
		if rule.Limit <= 0 || rule.Period <= 0 {
			continue
		}
		r.Configure(rule.Endpoint, rule.UserID, rule.Limit, rule.Period)
	}
	log.Printf("rate limit config loaded from %s (%d rules)", path, len(rules))
}

// watchFile reloads the rules whenever the config file is rewritten. Watches
// the containing directory so editors that replace the file are still seen.
func (r *rateLimitRegistry) watchFile(path string) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("rate limit watcher failed: %v", err)
		return
	}
	defer w.Close()
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		log.Printf("rate limit watcher failed to add %s: %v", dir, err)
		return
	}
	base := filepath.Base(path)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				r.loadFile(path)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("rate limit watcher error: %v", err)
		}
	}
}
