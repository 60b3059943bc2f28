package deck

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"
	"unicode"

	"fakeout/core/storage"

	"github.com/minio/minio-go/v7"
)

// curatedSource serves REAL cards from a self-hosted bucket of curated
// photographs. The bucket listing stands in for a dataset's row count, and a
// batch is a slice of that listing. Images are linked through the configured
// public base URL, never through the storage endpoint.
type curatedSource struct {
	client     storage.Client
	bucket     string
	publicBase string
	weight     float64

	mu   sync.Mutex
	keys []string
}

const curatedSourceID = "curated"

func newCuratedSource(client storage.Client, cfg storage.Config) *curatedSource {
	return &curatedSource{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		weight:     1,
	}
}

// publicHost returns the host cards from this source link through, so it can
// be added to the image allow-list.
func (s *curatedSource) publicHost() string {
	u, err := url.Parse(s.publicBase)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (s *curatedSource) ID() string            { return curatedSourceID }
func (s *curatedSource) Polarity() GroundTruth { return GroundTruthReal }
func (s *curatedSource) Weight() float64       { return s.weight }

func (s *curatedSource) Info() SourceInfo {
	return SourceInfo{
		ID:      curatedSourceID,
		Name:    "Curated Photographs",
		URL:     s.publicBase,
		License: "All rights reserved, used with permission",
	}
}

// RowCount lists the bucket once and caches the keys. A failed listing is
// not cached; the next call retries it.
func (s *curatedSource) RowCount(ctx context.Context) (int, error) {
	keys, err := s.listing(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// FetchBatch slices the cached listing. No validation pass is needed: keys
// are our own and the public URL host is allow-listed at construction.
func (s *curatedSource) FetchBatch(ctx context.Context, offset, limit int) ([]Card, error) {
	keys, err := s.listing(ctx)
	if err != nil {
		return nil, err
	}

	if offset < 0 || offset >= len(keys) {
		return nil, nil
	}
	end := offset + limit
	if end > len(keys) {
		end = len(keys)
	}

	cards := make([]Card, 0, end-offset)
	for _, key := range keys[offset:end] {
		cards = append(cards, Card{
			ID:              fmt.Sprintf("%s-%s", curatedSourceID, key),
			ImageURL:        s.publicBase + "/" + key,
			GroundTruth:     GroundTruthReal,
			DisplayLabel:    DisplayLabelReal,
			PromptOrCaption: captionFromKey(key),
			SourceID:        curatedSourceID,
			CreditLine:      "Curated photograph collection",
			SourceURL:       s.publicBase,
		})
	}
	return cards, nil
}

func (s *curatedSource) listing(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys != nil {
		return s.keys, nil
	}

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("checking curated bucket: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("curated bucket %q does not exist", s.bucket)
	}

	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("listing curated bucket: %w", obj.Err)
		}
		if isImageKey(obj.Key) {
			keys = append(keys, obj.Key)
		}
	}

	s.keys = keys
	return keys, nil
}

func isImageKey(key string) bool {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	default:
		return false
	}
}

// captionFromKey turns "street/market-in-hanoi.jpg" into "Market in hanoi".
func captionFromKey(key string) string {
	name := strings.TrimSuffix(path.Base(key), path.Ext(key))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.TrimSpace(name)
	if name == "" {
		return captionPlaceholder
	}
	runes := []rune(name)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
