package deck

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Assembler draws validated cards from per-source pools, topping them up from
// the upstream datasets, until a requested deck size and an approximate
// fake/real balance are met. Individual fetch failures are absorbed; only a
// completely empty pool is a hard failure.
type Assembler struct {
	cfg     Config
	logger  *zap.Logger
	sources []Source
	pools   map[string]*pool

	// flight collapses concurrent top-ups per source: a second caller waits
	// for the in-flight fetch instead of issuing a duplicate one.
	flight singleflight.Group
}

// NewAssembler creates an assembler over the given sources. Pools start
// empty and live for the life of the assembler.
func NewAssembler(cfg Config, logger *zap.Logger, sources ...Source) *Assembler {
	pools := make(map[string]*pool, len(sources))
	for _, src := range sources {
		pools[src.ID()] = newPool(cfg.PoolCapacity)
	}
	return &Assembler{
		cfg:     cfg,
		logger:  logger,
		sources: sources,
		pools:   pools,
	}
}

// policy bundles the per-call knobs separating the full and quick variants.
type policy struct {
	attempts    int
	floorLimit  int
	primaryOnly bool
}

// subTarget is one source's share of a polarity target.
type subTarget struct {
	source Source
	want   int
}

// FetchDeck assembles a deck of max(count, floor) cards across all enabled
// sources. It returns a partial deck rather than failing when sources
// underperform, and ErrNoImagesAvailable only when nothing could be fetched.
func (a *Assembler) FetchDeck(ctx context.Context, count int) ([]Card, error) {
	return a.assemble(ctx, count, policy{
		attempts:   a.cfg.MaxAttempts,
		floorLimit: a.cfg.FloorLimit,
	})
}

// FetchQuickDeck is the low-latency variant for first paint: one source per
// polarity, smaller fetches, fewer attempts. Same contract as FetchDeck; it
// is intended to be followed by a background FetchDeck top-up.
func (a *Assembler) FetchQuickDeck(ctx context.Context, count int) ([]Card, error) {
	return a.assemble(ctx, count, policy{
		attempts:    2,
		floorLimit:  a.cfg.QuickLimit,
		primaryOnly: true,
	})
}

// Sources describes the enabled sources for the attribution panel.
func (a *Assembler) Sources() []SourceInfo {
	out := make([]SourceInfo, 0, len(a.sources))
	for _, src := range a.sources {
		out = append(out, src.Info())
	}
	return out
}

func (a *Assembler) assemble(ctx context.Context, count int, p policy) ([]Card, error) {
	desired := count
	if desired < a.cfg.FloorCount {
		desired = a.cfg.FloorCount
	}

	targetFake := (desired + 1) / 2
	targetReal := desired - targetFake

	fakes := a.sourcesFor(GroundTruthAI, p.primaryOnly)
	reals := a.sourcesFor(GroundTruthReal, p.primaryOnly)

	fakePlan := splitTarget(targetFake, fakes)
	realPlan := splitTarget(targetReal, reals)
	plan := append(append([]subTarget{}, fakePlan...), realPlan...)

	// Fan out: independent sources fetch concurrently so wall-clock latency
	// is bounded by the slowest source, not the sum.
	results := make([][]Card, len(plan))
	var wg sync.WaitGroup
	for i, st := range plan {
		if st.want <= 0 {
			continue
		}
		wg.Add(1)
		go func(i int, st subTarget) {
			defer wg.Done()
			results[i] = a.collect(ctx, st.source, st.want, p)
		}(i, st)
	}
	wg.Wait()

	var fakeGot, realGot []Card
	for i, cards := range results {
		if i < len(fakePlan) {
			fakeGot = append(fakeGot, cards...)
		} else {
			realGot = append(realGot, cards...)
		}
	}

	// Fallback widening: a polarity's shortfall is re-attempted across every
	// source of that polarity in weight order, regardless of original
	// sub-targets. Shortfalls are never filled from the opposite polarity,
	// so a dead real source skews the deck small rather than all-fake.
	fakeGot = a.widen(ctx, fakeGot, targetFake, fakes, p)
	realGot = a.widen(ctx, realGot, targetReal, reals, p)

	combined := append(fakeGot, realGot...)

	if len(combined) == 0 {
		return nil, ErrNoImagesAvailable
	}

	shuffleCards(combined)
	if len(combined) > desired {
		combined = combined[:desired]
	}

	a.logger.Debug("deck assembled",
		zap.Int("requested", count),
		zap.Int("desired", desired),
		zap.Int("returned", len(combined)))
	return combined, nil
}

// widen tops a polarity up to its target across all of its sources, most
// reliable (heaviest) first.
func (a *Assembler) widen(ctx context.Context, got []Card, target int, sources []Source, p policy) []Card {
	for _, src := range sources {
		missing := target - len(got)
		if missing <= 0 {
			break
		}
		got = append(got, a.collect(ctx, src, missing, p)...)
	}
	return got
}

// collect draws want cards for one source, topping up the pool from upstream
// until the sub-target is met, the attempt budget runs out, or an attempt
// makes no progress at all.
func (a *Assembler) collect(ctx context.Context, src Source, want int, p policy) []Card {
	pl := a.pools[src.ID()]

	got := pl.Draw(want)
	for attempt := 0; len(got) < want && attempt < p.attempts; attempt++ {
		missing := want - len(got)

		added, err := a.topUp(ctx, src, missing, p)
		if err != nil {
			a.logger.Warn("source fetch failed",
				zap.String("source", src.ID()),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		drawn := pl.Draw(missing)
		got = append(got, drawn...)

		// No new cards cached and none drawn: the source has run out of
		// reachable novel rows for this session.
		if added == 0 && len(drawn) == 0 {
			break
		}
	}
	return got
}

// topUp fetches one oversized batch at a random offset, validates it, and
// enqueues the survivors. Concurrent top-ups for the same source share a
// single fetch via singleflight.
func (a *Assembler) topUp(ctx context.Context, src Source, missing int, p policy) (int, error) {
	result, err, _ := a.flight.Do(src.ID(), func() (any, error) {
		limit := missing * a.cfg.FetchMultiplier
		if limit < p.floorLimit {
			limit = p.floorLimit
		}

		total, err := src.RowCount(ctx)
		if err != nil {
			return 0, err
		}

		maxOffset := total - limit
		if maxOffset < 0 {
			maxOffset = 0
		}
		offset := 0
		if maxOffset > 0 {
			offset = rand.Intn(maxOffset + 1)
		}

		cards, err := src.FetchBatch(ctx, offset, limit)
		if err != nil {
			return 0, err
		}

		added := a.pools[src.ID()].Enqueue(cards)
		a.logger.Debug("source batch cached",
			zap.String("source", src.ID()),
			zap.Int("offset", offset),
			zap.Int("fetched", len(cards)),
			zap.Int("added", added))
		return added, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// sourcesFor returns the sources of one polarity ordered by weight. With
// primaryOnly set, only the heaviest source is returned.
func (a *Assembler) sourcesFor(polarity GroundTruth, primaryOnly bool) []Source {
	var out []Source
	for _, src := range a.sources {
		if src.Polarity() == polarity {
			out = append(out, src)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight() > out[j].Weight()
	})
	if primaryOnly && len(out) > 1 {
		out = out[:1]
	}
	return out
}

// splitTarget distributes a polarity target across its sources by weight.
// Earlier sources round up and the last absorbs the remainder, so the shares
// always sum to the target exactly.
func splitTarget(target int, sources []Source) []subTarget {
	if target <= 0 || len(sources) == 0 {
		return nil
	}

	total := 0.0
	for _, src := range sources {
		total += src.Weight()
	}

	out := make([]subTarget, 0, len(sources))
	remaining := target
	for i, src := range sources {
		want := remaining
		if i < len(sources)-1 {
			want = int(math.Ceil(float64(target) * src.Weight() / total))
			if want > remaining {
				want = remaining
			}
		}
		out = append(out, subTarget{source: src, want: want})
		remaining -= want
	}
	return out
}
