package deck

import (
	"context"
	"fmt"
	"sync"

	"fakeout/core/datasets"

	"golang.org/x/sync/singleflight"
)

// Source is one external dataset integration. Implementations translate the
// source's native rows into validated Cards and answer how many rows the
// source currently has.
type Source interface {
	// ID returns the source's stable identifier.
	ID() string
	// Polarity returns the answer every card from this source carries.
	Polarity() GroundTruth
	// Weight returns the source's share when a polarity target is split
	// across several sources.
	Weight() float64
	// Info describes the source for the attribution panel.
	Info() SourceInfo
	// RowCount returns the total number of rows. The value is cached on
	// success; failures are transient and retried on the next call.
	RowCount(ctx context.Context) (int, error)
	// FetchBatch fetches limit rows at offset and returns the cards that
	// survive validation. Rejected rows are dropped silently.
	FetchBatch(ctx context.Context, offset, limit int) ([]Card, error)
}

// rowSpec declares how one upstream dataset maps onto cards.
type rowSpec struct {
	id      string
	dataset string
	config  string
	split   string

	polarity GroundTruth
	weight   float64

	// imageField holds either a string URL or an {src: ...} object.
	imageField string
	// promptField is the caption/prompt column; empty means no caption.
	promptField string
	// labelField, when set, must map through labelMap to a known answer.
	// Rows whose mapped answer differs from the source polarity are rejected.
	labelField string
	labelMap   map[string]GroundTruth
	// modelField names the column carrying the generator model, modelName is
	// a fixed fallback for datasets produced by a single model.
	modelField string
	modelName  string

	// fallbackRows, when positive, substitutes for a failed metadata call.
	// It only biases the random-offset window, never correctness.
	fallbackRows int

	name    string
	url     string
	license string
	credit  string
}

// builtinSpecs are the stock dataset integrations. Weights within one
// polarity are relative, not percentages.
var builtinSpecs = []rowSpec{
	{
		id:           "diffusiondb",
		dataset:      "poloclub/diffusiondb",
		config:       "2m_random_5k",
		split:        "train",
		polarity:     GroundTruthAI,
		weight:       2,
		imageField:   "image",
		promptField:  "prompt",
		modelName:    "Stable Diffusion",
		fallbackRows: 5000,
		name:         "DiffusionDB",
		url:          "https://huggingface.co/datasets/poloclub/diffusiondb",
		license:      "CC0 1.0",
		credit:       "DiffusionDB (Wang et al.)",
	},
	{
		id:          "midjourney",
		dataset:     "ehristoforu/midjourney-images",
		config:      "default",
		split:       "train",
		polarity:    GroundTruthAI,
		weight:      1,
		imageField:  "image",
		promptField: "prompt",
		modelName:   "Midjourney",
		name:        "Midjourney Images",
		url:         "https://huggingface.co/datasets/ehristoforu/midjourney-images",
		license:     "MIT",
		credit:      "Midjourney community dataset",
	},
	{
		id:         "cifake-real",
		dataset:    "dragonintelligence/CIFAKE-image-dataset",
		config:     "default",
		split:      "train",
		polarity:   GroundTruthReal,
		weight:     1,
		imageField: "image",
		labelField: "label",
		// The dataset mixes real photographs (label 1) with synthetic
		// images (label 0); only the real rows match this source.
		labelMap: map[string]GroundTruth{
			"0": GroundTruthAI,
			"1": GroundTruthReal,
		},
		name:    "CIFAKE",
		url:     "https://huggingface.co/datasets/dragonintelligence/CIFAKE-image-dataset",
		license: "MIT",
		credit:  "CIFAKE (Bird & Lotfi)",
	},
	{
		id:           "flickr",
		dataset:      "nlphuji/flickr30k",
		config:       "TEST",
		split:        "test",
		polarity:     GroundTruthReal,
		weight:       2,
		imageField:   "image",
		promptField:  "caption",
		fallbackRows: 31000,
		name:         "Flickr30k",
		url:          "https://huggingface.co/datasets/nlphuji/flickr30k",
		license:      "CC BY 4.0 (non-commercial research)",
		credit:       "Flickr30k (Young et al.)",
	},
}

// datasetSource adapts one upstream dataset to the Source interface.
type datasetSource struct {
	spec      rowSpec
	client    datasets.Client
	validator *validator

	mu       sync.Mutex
	rowCount int
	sf       singleflight.Group
}

func newDatasetSource(spec rowSpec, client datasets.Client, v *validator) *datasetSource {
	return &datasetSource{spec: spec, client: client, validator: v}
}

func (s *datasetSource) ID() string            { return s.spec.id }
func (s *datasetSource) Polarity() GroundTruth { return s.spec.polarity }
func (s *datasetSource) Weight() float64       { return s.spec.weight }

func (s *datasetSource) Info() SourceInfo {
	return SourceInfo{
		ID:      s.spec.id,
		Name:    s.spec.name,
		URL:     s.spec.url,
		License: s.spec.license,
	}
}

// RowCount returns the cached row count, fetching it lazily. A failed or
// non-positive fetch never poisons the cache: the next call retries, with
// concurrent callers collapsed through singleflight.
func (s *datasetSource) RowCount(ctx context.Context) (int, error) {
	s.mu.Lock()
	cached := s.rowCount
	s.mu.Unlock()
	if cached > 0 {
		return cached, nil
	}

	result, err, _ := s.sf.Do("rowcount", func() (any, error) {
		s.mu.Lock()
		cached := s.rowCount
		s.mu.Unlock()
		if cached > 0 {
			return cached, nil
		}

		n, err := s.client.NumRows(ctx, s.spec.dataset, s.spec.config, s.spec.split)
		if err != nil || n <= 0 {
			if s.spec.fallbackRows > 0 {
				// Not cached: the real count is still worth retrying.
				return s.spec.fallbackRows, nil
			}
			if err == nil {
				err = fmt.Errorf("%w: dataset %s reports %d rows", datasets.ErrUnavailable, s.spec.dataset, n)
			}
			return 0, err
		}

		s.mu.Lock()
		s.rowCount = n
		s.mu.Unlock()
		return n, nil
	})
	if err != nil {
		return 0, err
	}
	return result.(int), nil
}

// FetchBatch fetches a page of rows and validates them into cards.
func (s *datasetSource) FetchBatch(ctx context.Context, offset, limit int) ([]Card, error) {
	rows, err := s.client.Rows(ctx, s.spec.dataset, s.spec.config, s.spec.split, offset, limit)
	if err != nil {
		return nil, err
	}

	cards := make([]Card, 0, len(rows))
	for _, row := range rows {
		if card := s.validator.validate(s.spec, row); card != nil {
			cards = append(cards, *card)
		}
	}
	return cards, nil
}

// buildSources instantiates the enabled dataset sources, applying the
// configured weight overrides.
func buildSources(cfg Config, client datasets.Client, v *validator) []Source {
	disabled := cfg.disabledSourceSet()
	overrides := cfg.weightOverrides()

	sources := make([]Source, 0, len(builtinSpecs))
	for _, spec := range builtinSpecs {
		if disabled[spec.id] {
			continue
		}
		if w, ok := overrides[spec.id]; ok {
			spec.weight = w
		}
		sources = append(sources, newDatasetSource(spec, client, v))
	}
	return sources
}
