package deck

// GroundTruth is the answer a card tests the player against.
type GroundTruth string

const (
	// GroundTruthAI marks an AI-generated image.
	GroundTruthAI GroundTruth = "AI"
	// GroundTruthReal marks a photograph.
	GroundTruthReal GroundTruth = "REAL"
)

// DisplayLabel is the label shown to the player after a guess. It mirrors
// GroundTruth but is kept distinct because some sources mark real rows inside
// an otherwise-synthetic dataset.
type DisplayLabel string

const (
	DisplayLabelFake DisplayLabel = "FAKE"
	DisplayLabelReal DisplayLabel = "REAL"
)

// displayFor maps a ground truth onto its player-facing label.
func displayFor(gt GroundTruth) DisplayLabel {
	if gt == GroundTruthAI {
		return DisplayLabelFake
	}
	return DisplayLabelReal
}

// Card is the normalized unit of gameplay content the UI consumes.
type Card struct {
	// ID is globally unique within a run session, derived deterministically
	// from the source id and the source-native row identifier so re-fetching
	// the same row never produces a duplicate.
	ID string `json:"id"`
	// ImageURL is an https URL on an allow-listed host.
	ImageURL string `json:"imageUrl"`
	// GroundTruth is the answer the player is being tested against.
	GroundTruth GroundTruth `json:"groundTruth"`
	// DisplayLabel is the label revealed after the guess.
	DisplayLabel DisplayLabel `json:"displayLabel"`
	// PromptOrCaption is shown after a guess. Never empty.
	PromptOrCaption string `json:"promptOrCaption"`
	// ModelName is present only for AI-generated cards.
	ModelName string `json:"modelName,omitempty"`
	// SourceID identifies the source the card came from.
	SourceID string `json:"sourceId"`
	// CreditLine is the attribution line for the card's dataset.
	CreditLine string `json:"creditLine"`
	// SourceURL links to the dataset's public page.
	SourceURL string `json:"sourceUrl"`
}

// SourceInfo describes one source for the UI's attribution panel.
type SourceInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	License string `json:"license"`
}

// captionPlaceholder is used when a row carries no usable prompt or caption.
const captionPlaceholder = "No description available"
