package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JohnZolton/Zynq/models"
)

type stubProvider struct {
	mu      sync.Mutex
	calls   []string
	results map[string][]models.FoodSummary
	gates   map[string]chan struct{}
	err     error
}

func (s *stubProvider) SearchFoods(query string, pageSize int) ([]models.FoodSummary, error) {
	s.mu.Lock()
	s.calls = append(s.calls, query)
	gate := s.gates[query]
	res := s.results[query]
	err := s.err
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return res, err
}

func (s *stubProvider) GetFood(fdcID int64) (*models.NutrientProfile, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProvider) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *stubProvider) lastCall() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return ""
	}
	return s.calls[len(s.calls)-1]
}

func newTestPipeline(provider *stubProvider) *SearchPipeline {
	p := NewSearchPipeline(provider)
	p.window = 5 * time.Millisecond
	return p
}

func apples() []models.FoodSummary {
	return []models.FoodSummary{
		{FDCID: 1102644, Description: "Apple, raw"},
		{FDCID: 1102645, Description: "Apple juice", BrandOwner: "Orchard Co"},
	}
}

func TestShortQueryNeverCallsProvider(t *testing.T) {
	provider := &stubProvider{results: map[string][]models.FoodSummary{}}
	p := newTestPipeline(provider)

	p.OnQueryChanged("")
	p.OnQueryChanged("a")
	p.OnQueryChanged("ap")

	time.Sleep(10 * p.window)
	assert.Equal(t, 0, provider.callCount())
	assert.Empty(t, p.CurrentSuggestions())
	assert.False(t, p.Loading())
}

func TestBurstCoalescesToSingleCall(t *testing.T) {
	provider := &stubProvider{
		results: map[string][]models.FoodSummary{"apple": apples()},
	}
	p := newTestPipeline(provider)

	p.OnQueryChanged("app")
	p.OnQueryChanged("appl")
	p.OnQueryChanged("apple")

	assert.Eventually(t, func() bool {
		return len(p.CurrentSuggestions()) == 2
	}, time.Second, time.Millisecond)

	assert.Equal(t, 1, provider.callCount())
	assert.Equal(t, "apple", provider.lastCall())
	assert.Equal(t, apples(), p.CurrentSuggestions())
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	appleGate := make(chan struct{})
	provider := &stubProvider{
		results: map[string][]models.FoodSummary{
			"apple":  apples(),
			"banana": {{FDCID: 42, Description: "Banana, raw"}},
		},
		gates: map[string]chan struct{}{"apple": appleGate},
	}
	p := newTestPipeline(provider)

	p.OnQueryChanged("apple")
	assert.Eventually(t, func() bool {
		return provider.callCount() == 1
	}, time.Second, time.Millisecond)

	// apple is still in flight when banana is issued
	p.OnQueryChanged("banana")
	assert.Eventually(t, func() bool {
		s := p.CurrentSuggestions()
		return len(s) == 1 && s[0].Description == "Banana, raw"
	}, time.Second, time.Millisecond)

	// now the slow apple response lands; it must not win
	close(appleGate)
	time.Sleep(20 * time.Millisecond)

	s := p.CurrentSuggestions()
	assert.Len(t, s, 1)
	assert.Equal(t, "Banana, raw", s[0].Description)
	assert.False(t, p.Loading())
}

func TestProviderErrorClearsSuggestions(t *testing.T) {
	provider := &stubProvider{
		results: map[string][]models.FoodSummary{"apple": apples()},
	}
	p := newTestPipeline(provider)

	p.OnQueryChanged("apple")
	assert.Eventually(t, func() bool {
		return len(p.CurrentSuggestions()) == 2
	}, time.Second, time.Millisecond)

	provider.mu.Lock()
	provider.err = errors.New("boom")
	provider.mu.Unlock()

	p.OnQueryChanged("bananas")
	assert.Eventually(t, func() bool {
		return p.Failed()
	}, time.Second, time.Millisecond)
	assert.Empty(t, p.CurrentSuggestions())
	assert.False(t, p.Loading())

	// the pipeline keeps working after a failure
	provider.mu.Lock()
	provider.err = nil
	provider.mu.Unlock()

	p.OnQueryChanged("apple")
	assert.Eventually(t, func() bool {
		return len(p.CurrentSuggestions()) == 2 && !p.Failed()
	}, time.Second, time.Millisecond)
}

func TestShortQueryInvalidatesInflightRequest(t *testing.T) {
	appleGate := make(chan struct{})
	provider := &stubProvider{
		results: map[string][]models.FoodSummary{"apple": apples()},
		gates:   map[string]chan struct{}{"apple": appleGate},
	}
	p := newTestPipeline(provider)

	p.OnQueryChanged("apple")
	assert.Eventually(t, func() bool {
		return provider.callCount() == 1
	}, time.Second, time.Millisecond)

	// the user cleared the box while the request was in flight
	p.OnQueryChanged("ap")
	assert.False(t, p.Loading())

	close(appleGate)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, p.CurrentSuggestions())
}
