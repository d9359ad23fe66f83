package engine

import (
	"sync"
	"time"
)

type rememberedEngine struct {
	name      string
	expiresAt time.Time
}

// DomainMemory remembers which engine last won the race for a host, so the
// next fetch of a page on the same recipe site goes straight to it. Entries
// expire after ttl.
type DomainMemory struct {
	mu      sync.RWMutex
	entries map[string]rememberedEngine
	ttl     time.Duration
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewDomainMemory creates a DomainMemory and starts a goroutine pruning
// expired entries every hour. Call Stop to end it.
func NewDomainMemory(ttl time.Duration) *DomainMemory {
	dm := newDomainMemory(ttl, time.Now)
	go dm.pruneLoop(time.Hour)
	return dm
}

func newDomainMemory(ttl time.Duration, now func() time.Time) *DomainMemory {
	return &DomainMemory{
		entries: make(map[string]rememberedEngine),
		ttl:     ttl,
		now:     now,
		done:    make(chan struct{}),
	}
}

// Get returns the remembered engine name for a domain, or "" if unknown or expired.
func (dm *DomainMemory) Get(domain string) string {
	dm.mu.RLock()
	e, ok := dm.entries[domain]
	dm.mu.RUnlock()
	if !ok || dm.now().After(e.expiresAt) {
		return ""
	}
	return e.name
}

// Set records which engine succeeded for a domain.
func (dm *DomainMemory) Set(domain, engineName string) {
	dm.mu.Lock()
	dm.entries[domain] = rememberedEngine{name: engineName, expiresAt: dm.now().Add(dm.ttl)}
	dm.mu.Unlock()
}

// Delete forgets a domain, e.g. after its remembered engine failed.
func (dm *DomainMemory) Delete(domain string) {
	dm.mu.Lock()
	delete(dm.entries, domain)
	dm.mu.Unlock()
}

// Len returns the number of entries, expired ones included until pruned.
func (dm *DomainMemory) Len() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.entries)
}

// Stop terminates the pruning goroutine. It is safe to call more than once.
func (dm *DomainMemory) Stop() {
	dm.once.Do(func() { close(dm.done) })
}

func (dm *DomainMemory) prune() {
	now := dm.now()
	dm.mu.Lock()
	for domain, e := range dm.entries {
		if now.After(e.expiresAt) {
			delete(dm.entries, domain)
		}
	}
	dm.mu.Unlock()
}

func (dm *DomainMemory) pruneLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-dm.done:
			return
		case <-ticker.C:
			dm.prune()
		}
	}
}
