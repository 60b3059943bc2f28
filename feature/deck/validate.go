package deck

import (
	"fmt"
	"net/url"
	"strings"

	"fakeout/core/datasets"
	"fakeout/core/utils"
)

// validator holds the cross-source validation policy.
type validator struct {
	allowedHosts   map[string]bool
	excludedModels map[string]bool
}

func newValidator(cfg Config) *validator {
	return &validator{
		allowedHosts:   cfg.allowedHostSet(),
		excludedModels: cfg.excludedModelSet(),
	}
}

// allowHost adds a host to the allow-list. Used for the curated storage host.
func (v *validator) allowHost(host string) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host != "" {
		v.allowedHosts[host] = true
	}
}

// validate turns one raw row into a Card, or nil when the row is malformed or
// filtered. It is pure and total: rejected rows are expected and common, so
// it never returns an error.
func (v *validator) validate(spec rowSpec, row datasets.Row) *Card {
	// Every served card must carry attribution; a source without it cannot
	// produce cards at all.
	if spec.credit == "" || spec.url == "" {
		return nil
	}

	imageURL := imageURLFrom(row.Row[spec.imageField])
	if !v.checkImageURL(imageURL) {
		return nil
	}

	truth := spec.polarity
	if spec.labelField != "" {
		mapped, ok := spec.labelMap[utils.ToString(row.Row[spec.labelField])]
		if !ok {
			return nil
		}
		// A source dedicated to one polarity rejects rows of the other.
		if mapped != spec.polarity {
			return nil
		}
		truth = mapped
	}

	var modelName string
	if truth == GroundTruthAI {
		modelName = spec.modelName
		if spec.modelField != "" {
			if m := utils.ToString(row.Row[spec.modelField]); m != "" {
				modelName = m
			}
		}
		if v.excludedModels[strings.ToLower(modelName)] {
			return nil
		}
	}

	caption := ""
	if spec.promptField != "" {
		caption = strings.TrimSpace(utils.ToString(row.Row[spec.promptField]))
	}
	if caption == "" {
		caption = captionPlaceholder
	}

	return &Card{
		ID:              fmt.Sprintf("%s-%s-%d", spec.id, spec.split, row.Idx),
		ImageURL:        imageURL,
		GroundTruth:     truth,
		DisplayLabel:    displayFor(truth),
		PromptOrCaption: caption,
		ModelName:       modelName,
		SourceID:        spec.id,
		CreditLine:      spec.credit,
		SourceURL:       spec.url,
	}
}

// imageURLFrom extracts a URL from an image column, which is either a plain
// string or an object with a src field.
func imageURLFrom(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case map[string]any:
		return utils.ToString(v["src"])
	default:
		return ""
	}
}

// checkImageURL enforces https on an allow-listed host. The upstream API is
// public, so URLs in rows are treated as untrusted input.
func (v *validator) checkImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "https" {
		return false
	}
	return v.allowedHosts[strings.ToLower(u.Hostname())]
}
