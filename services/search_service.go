package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JohnZolton/Zynq/logger"
	"github.com/JohnZolton/Zynq/models"
)

const (
	// minQueryLength keeps overly broad, high-cost lookups off the wire.
	minQueryLength = 3
	// quiescenceWindow coalesces a typing burst into one provider call.
	quiescenceWindow = 300 * time.Millisecond
	searchPageSize   = 20
)

// SearchPipeline turns keystrokes into ranked suggestions. Every keystroke
// goes through OnQueryChanged; a provider request is only issued after the
// input has been quiet for the quiescence window, and a response is only
// applied if no newer request has been issued since (latest wins).
type SearchPipeline struct {
	provider FoodProvider
	window   time.Duration
	pageSize int

	mu          sync.Mutex
	timer       *time.Timer
	pending     string
	seq         uint64 // bumped whenever the current intent changes
	suggestions []models.FoodSummary
	loading     bool
	failed      bool
}

func NewSearchPipeline(provider FoodProvider) *SearchPipeline {
	return &SearchPipeline{
		provider: provider,
		window:   quiescenceWindow,
		pageSize: searchPageSize,
	}
}

// OnQueryChanged records the latest query text. Fire-and-forget.
func (p *SearchPipeline) OnQueryChanged(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}

	if len([]rune(text)) < minQueryLength {
		p.seq++ // any in-flight response is now stale
		p.suggestions = nil
		p.loading = false
		p.failed = false
		return
	}

	p.pending = text
	p.timer = time.AfterFunc(p.window, p.fire)
}

// fire runs on the timer goroutine once the input has gone quiet.
func (p *SearchPipeline) fire() {
	p.mu.Lock()
	query := p.pending
	p.seq++
	token := p.seq
	p.loading = true
	p.mu.Unlock()

	results, err := p.provider.SearchFoods(query, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.seq {
		// A newer query owns the pipeline now; drop this response.
		return
	}
	p.loading = false
	if err != nil {
		logger.Warn("food search failed", zap.String("query", query), zap.Error(err))
		p.suggestions = nil
		p.failed = true
		return
	}
	p.failed = false
	p.suggestions = results
}

// CurrentSuggestions returns the latest settled result, provider order.
func (p *SearchPipeline) CurrentSuggestions() []models.FoodSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.FoodSummary, len(p.suggestions))
	copy(out, p.suggestions)
	return out
}

// Loading reports whether a request is logically in flight.
func (p *SearchPipeline) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Failed reports the recoverable "search unavailable" state. It clears on
// the next successful lookup or when the query drops below the minimum.
func (p *SearchPipeline) Failed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}
