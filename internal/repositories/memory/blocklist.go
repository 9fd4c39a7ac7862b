package memory

import (
	"context"
	"sync"

	"antifraud/internal/repositories"
)

type Blocklist struct {
	mu    sync.RWMutex
	ips   map[string]struct{}
	cards map[string]struct{}
}

func NewBlocklist(ips, cards []string) *Blocklist {
	b := &Blocklist{
		ips:   make(map[string]struct{}, len(ips)),
		cards: make(map[string]struct{}, len(cards)),
	}
	for _, ip := range ips {
		b.ips[ip] = struct{}{}
	}
	for _, number := range cards {
		b.cards[number] = struct{}{}
	}
	return b
}

var _ repositories.BlocklistStore = (*Blocklist)(nil)

func (b *Blocklist) IsSuspiciousIP(ctx context.Context, ip string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.ips[ip]
	return ok, nil
}

func (b *Blocklist) IsStolenCard(ctx context.Context, number string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.cards[number]
	return ok, nil
}

func (b *Blocklist) AddSuspiciousIP(ctx context.Context, ip string) (bool, error) {
	return b.add(ctx, b.ips, ip)
}

func (b *Blocklist) AddStolenCard(ctx context.Context, number string) (bool, error) {
	return b.add(ctx, b.cards, number)
}

func (b *Blocklist) add(ctx context.Context, set map[string]struct{}, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := set[key]; ok {
		return false, nil
	}
	set[key] = struct{}{}
	return true, nil
}
