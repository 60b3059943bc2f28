package deck

import (
	"math/rand"
	"sync"
)

// pool is the bounded per-source card buffer: an ordered queue of validated
// cards plus an id set for O(1) duplicate checks. The id set outlives draws:
// once a card has been served it stays registered, so a later fetch landing
// on the same rows cannot re-enter it. Only FIFO eviction of a card that was
// never served frees its id. Enqueue and draw mutate queue and set under one
// lock so interleaved top-ups cannot lose updates or admit duplicates.
type pool struct {
	mu       sync.Mutex
	cards    []Card
	ids      map[string]struct{}
	capacity int
}

func newPool(capacity int) *pool {
	if capacity <= 0 {
		capacity = 500
	}
	return &pool{
		ids:      make(map[string]struct{}),
		capacity: capacity,
	}
}

// Enqueue appends cards whose ids are not already tracked and returns how
// many were newly added. A zero return tells the assembler the fetch
// contributed nothing new. When the queue exceeds capacity, the oldest
// fetched cards are evicted first.
func (p *pool) Enqueue(cards []Card) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	added := 0
	for _, card := range cards {
		if _, seen := p.ids[card.ID]; seen {
			continue
		}
		p.ids[card.ID] = struct{}{}
		p.cards = append(p.cards, card)
		added++
	}

	// FIFO eviction: oldest fetched is an adequate staleness proxy here.
	for len(p.cards) > p.capacity {
		evicted := p.cards[0]
		p.cards = p.cards[1:]
		delete(p.ids, evicted.ID)
	}

	return added
}

// Draw removes up to count random cards and returns them in randomized
// order. Drawing from an empty pool returns an empty slice.
func (p *pool) Draw(count int) []Card {
	p.mu.Lock()
	defer p.mu.Unlock()

	if count <= 0 || len(p.cards) == 0 {
		return nil
	}

	if count >= len(p.cards) {
		out := p.cards
		p.cards = nil
		shuffleCards(out)
		return out
	}

	// Pick count distinct positions, then remove from highest index to
	// lowest so earlier removals do not shift later ones. Ids stay
	// registered: a served card must never be enqueued again.
	positions := rand.Perm(len(p.cards))[:count]
	sortDescending(positions)

	out := make([]Card, 0, count)
	for _, idx := range positions {
		out = append(out, p.cards[idx])
		p.cards = append(p.cards[:idx], p.cards[idx+1:]...)
	}
	shuffleCards(out)
	return out
}

// Len returns the current queue length.
func (p *pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cards)
}

func sortDescending(nums []int) {
	for i := 1; i < len(nums); i++ {
		for j := i; j > 0 && nums[j] > nums[j-1]; j-- {
			nums[j], nums[j-1] = nums[j-1], nums[j]
		}
	}
}
