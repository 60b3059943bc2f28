package deck

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeCards(prefix string, n int) []Card {
	cards := make([]Card, n)
	for i := range cards {
		cards[i] = Card{
			ID:          fmt.Sprintf("%s-%d", prefix, i),
			ImageURL:    "https://images.test/" + prefix + ".jpg",
			GroundTruth: GroundTruthAI,
		}
	}
	return cards
}

func TestPoolEnqueueDeduplicates(t *testing.T) {
	p := newPool(100)

	added := p.Enqueue(makeCards("a", 10))
	assert.Equal(t, 10, added)
	assert.Equal(t, 10, p.Len())

	// Re-enqueueing the same ids contributes nothing.
	added = p.Enqueue(makeCards("a", 10))
	assert.Equal(t, 0, added)
	assert.Equal(t, 10, p.Len())
}

func TestPoolCapacityBound(t *testing.T) {
	p := newPool(25)

	p.Enqueue(makeCards("a", 20))
	p.Enqueue(makeCards("b", 20))
	assert.Equal(t, 25, p.Len())

	// FIFO eviction: the oldest cards left, so their ids are free again.
	added := p.Enqueue(makeCards("a", 15))
	assert.Equal(t, 15, added)
	assert.Equal(t, 25, p.Len())
}

func TestPoolDrawExhaustion(t *testing.T) {
	p := newPool(100)
	p.Enqueue(makeCards("a", 8))

	drawn := p.Draw(20)
	require.Len(t, drawn, 8)
	assert.Equal(t, 0, p.Len())

	seen := map[string]bool{}
	for _, c := range drawn {
		assert.False(t, seen[c.ID], "card %s drawn twice", c.ID)
		seen[c.ID] = true
	}
}

func TestPoolDrawEmpty(t *testing.T) {
	p := newPool(100)
	assert.Empty(t, p.Draw(5))
}

func TestPoolDrawPartial(t *testing.T) {
	p := newPool(100)
	p.Enqueue(makeCards("a", 20))

	drawn := p.Draw(5)
	require.Len(t, drawn, 5)
	assert.Equal(t, 15, p.Len())

	seen := map[string]bool{}
	for _, c := range drawn {
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
	}

	rest := p.Draw(15)
	require.Len(t, rest, 15)
	for _, c := range rest {
		assert.False(t, seen[c.ID], "card %s drawn twice across draws", c.ID)
	}
}

func TestPoolServedIDsStayRegistered(t *testing.T) {
	p := newPool(100)

	require.Equal(t, 5, p.Enqueue(makeCards("a", 5)))
	require.Len(t, p.Draw(5), 5)

	// A later fetch landing on the same rows contributes nothing: served
	// ids persist for the life of the pool.
	assert.Equal(t, 0, p.Enqueue(makeCards("a", 5)))
	assert.Equal(t, 0, p.Len())
}

func TestPoolServedIDsSurvivePartialDraw(t *testing.T) {
	p := newPool(100)
	p.Enqueue(makeCards("a", 10))

	drawn := p.Draw(4)
	require.Len(t, drawn, 4)

	assert.Equal(t, 0, p.Enqueue(makeCards("a", 10)))
	assert.Equal(t, 6, p.Len())
}

func TestPoolDrawZero(t *testing.T) {
	p := newPool(100)
	p.Enqueue(makeCards("a", 3))
	assert.Empty(t, p.Draw(0))
	assert.Equal(t, 3, p.Len())
}
