package deck

import (
	"context"
	"testing"

	"fakeout/core/datasets"
	"fakeout/core/datasets/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() Config {
	return Config{
		FloorCount:      8,
		PoolCapacity:    500,
		MaxAttempts:     3,
		FetchMultiplier: 2,
		FloorLimit:      10,
		QuickLimit:      5,
		AllowedHosts:    "images.test",
	}
}

// newTestAssembler wires one fake and one real source over a shared mock
// client. Dataset names are test/fake and test/real.
func newTestAssembler(t *testing.T, client *mocks.Client) *Assembler {
	t.Helper()
	v := testValidator()
	fake := newDatasetSource(testSpec("fake", GroundTruthAI, 1), client, v)
	real := newDatasetSource(testSpec("real", GroundTruthReal, 1), client, v)
	return NewAssembler(testConfig(), zap.NewNop(), fake, real)
}

func TestSplitExactness(t *testing.T) {
	for desired := 8; desired <= 40; desired++ {
		targetFake := (desired + 1) / 2
		targetReal := desired - targetFake
		assert.Equal(t, desired, targetFake+targetReal)
	}
}

func TestSplitTargetSumsExactly(t *testing.T) {
	client := new(mocks.Client)
	v := testValidator()
	a := newDatasetSource(testSpec("a", GroundTruthAI, 2), client, v)
	b := newDatasetSource(testSpec("b", GroundTruthAI, 1), client, v)
	c := newDatasetSource(testSpec("c", GroundTruthAI, 1), client, v)

	for target := 1; target <= 25; target++ {
		plan := splitTarget(target, []Source{a, b, c})
		sum := 0
		for _, st := range plan {
			sum += st.want
			assert.GreaterOrEqual(t, st.want, 0)
		}
		assert.Equal(t, target, sum, "target %d", target)
	}

	// The primary (heaviest) source rounds up.
	plan := splitTarget(7, []Source{a, b, c})
	assert.Equal(t, 4, plan[0].want)
}

func TestFetchDeckBalanced(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	client.On("NumRows", mock.Anything, "test/fake", "default", "train").Return(1000, nil)
	client.On("NumRows", mock.Anything, "test/real", "default", "train").Return(1000, nil)
	client.On("Rows", mock.Anything, "test/fake", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(0, 40), nil)
	client.On("Rows", mock.Anything, "test/real", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(500, 40), nil)

	cards, err := asm.FetchDeck(context.Background(), 20)
	require.NoError(t, err)
	assert.Len(t, cards, 20)

	counts := map[GroundTruth]int{}
	ids := map[string]bool{}
	for _, c := range cards {
		counts[c.GroundTruth]++
		assert.False(t, ids[c.ID], "duplicate card %s in deck", c.ID)
		ids[c.ID] = true
	}
	assert.Equal(t, 10, counts[GroundTruthAI])
	assert.Equal(t, 10, counts[GroundTruthReal])
}

func TestFetchDeckFloor(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	client.On("NumRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(1000, nil)
	client.On("Rows", mock.Anything, "test/fake", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(0, 40), nil)
	client.On("Rows", mock.Anything, "test/real", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(500, 40), nil)

	cards, err := asm.FetchDeck(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, cards, 8)
}

func TestFetchDeckPartialWhenOnePolarityDead(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	client.On("NumRows", mock.Anything, "test/fake", "default", "train").Return(1000, nil)
	client.On("Rows", mock.Anything, "test/fake", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(0, 40), nil)

	// The real source times out on every attempt.
	client.On("NumRows", mock.Anything, "test/real", "default", "train").
		Return(0, datasets.ErrTimeout)

	cards, err := asm.FetchDeck(context.Background(), 24)
	require.NoError(t, err, "a dead polarity must degrade the deck, not fail it")
	assert.Len(t, cards, 12)
	for _, c := range cards {
		assert.Equal(t, GroundTruthAI, c.GroundTruth)
	}
}

func TestFetchDeckNoImagesAvailable(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	client.On("NumRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(0, datasets.ErrUnavailable)

	cards, err := asm.FetchDeck(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoImagesAvailable)
	assert.Empty(t, cards)
}

func TestFetchDeckZeroValidRows(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	badRows := []datasets.Row{
		{Idx: 0, Row: map[string]any{"image": "https://evil.example/x.jpg"}},
	}
	client.On("NumRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(1000, nil)
	client.On("Rows", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(badRows, nil)

	_, err := asm.FetchDeck(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoImagesAvailable)
}

func TestFetchDeckServesWarmCacheWithoutRefetch(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	client.On("NumRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(1000, nil)
	fakeRows := client.On("Rows", mock.Anything, "test/fake", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(0, 100), nil)
	realRows := client.On("Rows", mock.Anything, "test/real", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(500, 100), nil)

	_, err := asm.FetchDeck(context.Background(), 10)
	require.NoError(t, err)

	// The pools now hold plenty; a short top-up draw must not hit the
	// network again.
	fakeRows.Unset()
	realRows.Unset()

	cards, err := asm.FetchDeck(context.Background(), 8)
	require.NoError(t, err)
	assert.Len(t, cards, 8)
}

func TestFetchQuickDeck(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	client.On("NumRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(1000, nil)
	client.On("Rows", mock.Anything, "test/fake", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(0, 40), nil)
	client.On("Rows", mock.Anything, "test/real", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(500, 40), nil)

	cards, err := asm.FetchQuickDeck(context.Background(), 8)
	require.NoError(t, err)
	assert.Len(t, cards, 8)
}

func TestFetchDeckExhaustedSourceTerminates(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	// Both sources keep returning the same 5 rows: after the first enqueue,
	// every further fetch contributes nothing new and the loop must stop.
	client.On("NumRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(5, nil)
	client.On("Rows", mock.Anything, "test/fake", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(0, 5), nil)
	client.On("Rows", mock.Anything, "test/real", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(500, 5), nil)

	cards, err := asm.FetchDeck(context.Background(), 30)
	require.NoError(t, err)
	assert.Len(t, cards, 10)

	seen := map[string]bool{}
	for _, c := range cards {
		assert.False(t, seen[c.ID], "card %s appears more than once in one deck", c.ID)
		seen[c.ID] = true
	}
}

// A source whose upstream keeps serving rows that were already dealt must not
// smuggle them into a later deck: served ids stay registered in the pool.
func TestFetchDeckNeverRedealsServedCards(t *testing.T) {
	client := new(mocks.Client)
	asm := newTestAssembler(t, client)

	client.On("NumRows", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(5, nil)
	client.On("Rows", mock.Anything, "test/fake", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(0, 5), nil)
	client.On("Rows", mock.Anything, "test/real", "default", "train", mock.Anything, mock.Anything).
		Return(apiRows(500, 5), nil)

	first, err := asm.FetchDeck(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, first, 10)

	// Both sources are spent; a second request finds nothing novel.
	_, err = asm.FetchDeck(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoImagesAvailable)
}
