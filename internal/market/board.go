package market

import (
	"sync"
	"time"

	"github.com/paperdesk/gostock/pkg/cache"
)

// Board is the in-memory quote table. Entries expire after the configured
// TTL, so a stalled feed degrades to "price unavailable" instead of serving
// stale prices. Subscribers receive every accepted update.
type Board struct {
	quotes *cache.InMemoryCache[string, Quote]

	subMu sync.Mutex
	subs  map[chan Quote]struct{}
}

func NewBoard(ttl time.Duration) *Board {
	return &Board{
		quotes: cache.NewInMemoryCache[string, Quote](ttl),
		subs:   make(map[chan Quote]struct{}),
	}
}

// Set stores a quote and fans it out to subscribers. Quotes for unlisted
// symbols are dropped.
func (b *Board) Set(q Quote) {
	if !Listed(q.Symbol) {
		return
	}
	if q.UpdatedAt.IsZero() {
		q.UpdatedAt = time.Now()
	}
	b.quotes.Set(q.Symbol, q, 0)
	b.publish(q)
}

// Quote implements Source. ok is false for unknown symbols, expired entries
// and entries without a positive price.
func (b *Board) Quote(symbol string) (Quote, bool) {
	q, ok := b.quotes.Get(symbol)
	if !ok || !q.Priced() {
		return Quote{}, false
	}
	return q, true
}

// Snapshot returns the live quotes in catalog order. Symbols with no usable
// quote are returned with a zero price so callers can render placeholders.
func (b *Board) Snapshot() []Quote {
	out := make([]Quote, 0, len(Catalog))
	for _, s := range Catalog {
		q, ok := b.quotes.Get(s.Symbol)
		if !ok {
			q = Quote{Symbol: s.Symbol}
		}
		out = append(out, q)
	}
	return out
}

// Subscribe registers a buffered channel receiving quote updates. Slow
// consumers miss updates rather than blocking the feed.
func (b *Board) Subscribe() chan Quote {
	ch := make(chan Quote, 64)
	b.subMu.Lock()
	b.subs[ch] = struct{}{}
	b.subMu.Unlock()
	return ch
}

func (b *Board) Unsubscribe(ch chan Quote) {
	b.subMu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.subMu.Unlock()
}

func (b *Board) publish(q Quote) {
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- q:
		default:
		}
	}
}
