package ingest

import (
	"sync"
	"time"
)

// dedup is a TTL cache over delivery keys. It is a fast path only; the
// recorded inbound message in the store stays authoritative, so a restart
// losing this cache costs one store lookup per redelivery, not correctness.
type dedup struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	done chan struct{}
}

func newDedup(ttl time.Duration) *dedup {
	d := &dedup{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go d.cleanupLoop()
	return d
}

func (d *dedup) close() {
	close(d.done)
}

// isDuplicate records the key and reports whether it was seen within the
// TTL.
func (d *dedup) isDuplicate(key string) bool {
	if key == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[key]; exists {
		return true
	}
	d.seen[key] = time.Now()
	return false
}

// forget releases a key so a redelivery can be retried, used when recording
// the delivery failed after the key was claimed.
func (d *dedup) forget(key string) {
	d.mu.Lock()
	delete(d.seen, key)
	d.mu.Unlock()
}

func (d *dedup) cleanupLoop() {
	ticker := time.NewTicker(d.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-ticker.C:
			d.mu.Lock()
			cutoff := time.Now().Add(-d.ttl)
			for k, t := range d.seen {
				if t.Before(cutoff) {
					delete(d.seen, k)
				}
			}
			d.mu.Unlock()
		}
	}
}
