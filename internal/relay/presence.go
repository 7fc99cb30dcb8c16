package relay

import "sync"

// Presence tracks best-effort online/offline state per user, derived from
// the number of live identified connections. It is written only by the
// Registry; handlers consult it read-only for the offline-fallback decision.
// State is process-local and rebuilt from zero on restart.
type Presence struct {
	mu     sync.RWMutex
	counts map[string]int
}

func NewPresence() *Presence {
	return &Presence{counts: make(map[string]int)}
}

func (p *Presence) connected(userID string) {
	p.mu.Lock()
	p.counts[userID]++
	p.mu.Unlock()
}

// disconnected decrements the live-connection count. A user only flips
// offline once the last of their connections is gone.
func (p *Presence) disconnected(userID string) {
	p.mu.Lock()
	if p.counts[userID] > 1 {
		p.counts[userID]--
	} else {
		delete(p.counts, userID)
	}
	p.mu.Unlock()
}

// IsOnline reports whether any live connection is identified as userID.
func (p *Presence) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counts[userID] > 0
}
