package usecase

import (
	"time"

	"github.com/allisson/isolator/internal/isolation/domain"
)

// catchAllPolicy bounds how long unattributed requests share one identity. Staleness is
// checked lazily on each catch-all request; there is no timer.
type catchAllPolicy struct {
	store      *keyStore
	maxAge     time.Duration
	dirtySince time.Time
}

func newCatchAllPolicy(store *keyStore, maxAge time.Duration, now time.Time) *catchAllPolicy {
	return &catchAllPolicy{
		store:      store,
		maxAge:     maxAge,
		dirtySince: now,
	}
}

// check rotates the catch-all token once it is older than maxAge and restarts the clock.
func (p *catchAllPolicy) check(now time.Time) (rotated bool, err error) {
	if !p.stale(now) {
		return false, nil
	}
	if err := p.store.rotateDomain(domain.CatchAllDomain); err != nil {
		return false, err
	}
	p.dirtySince = now
	return true, nil
}

// reset restarts the clock after the catch-all token was replaced by someone else.
func (p *catchAllPolicy) reset(now time.Time) {
	p.dirtySince = now
}

// stale reports whether the next check at now would rotate.
func (p *catchAllPolicy) stale(now time.Time) bool {
	return now.Sub(p.dirtySince) > p.maxAge
}

func (p *catchAllPolicy) age(now time.Time) time.Duration {
	return now.Sub(p.dirtySince)
}
