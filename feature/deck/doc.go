// Package deck implements the deck assembler, the subsystem that turns rows
// from public image datasets into balanced, shuffled decks of gameplay cards.
//
// # Pipeline
//
// A deck request flows through four stages:
//  1. Source adapters query one upstream dataset each (or the curated
//     storage bucket) and validate raw rows into Cards. Validation is pure
//     and total: malformed or filtered rows yield nil, never an error.
//  2. Per-source pools buffer validated cards between requests, bounded with
//     FIFO eviction and deduplicated by card id.
//  3. The assembler splits the requested count into per-source sub-targets
//     by polarity and weight, draws from the pools first, and tops them up
//     from upstream at random offsets with a bounded retry budget. Sources
//     that fail or run dry trigger fallback widening onto the remaining
//     sources. Concurrent top-ups for one source are collapsed through
//     singleflight.
//  4. The combined pool is Fisher-Yates shuffled and truncated.
//
// A degraded deck always beats a hard failure: upstream errors are absorbed
// and logged, and only a completely empty result surfaces as
// ErrNoImagesAvailable.
package deck
