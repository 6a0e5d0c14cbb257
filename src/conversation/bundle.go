package conversation

import "time"

// GenerationRequest carries the user's inputs for one generation call.
// Validation tags are enforced by the controller before any network call.
type GenerationRequest struct {
	Kind      ToolKind `json:"kind" validate:"required"`
	Prompt    string   `json:"prompt" validate:"required"`
	Platforms []string `json:"platforms" validate:"min=1,dive,oneof=facebook instagram twitter linkedin tiktok youtube"`
	Style     string   `json:"style,omitempty"`
	Language  string   `json:"language,omitempty"`
	Audience  string   `json:"audience,omitempty"`
	MediaRefs []string `json:"media_refs,omitempty"`
}

// Variation is one platform-tagged piece of generated content.
type Variation struct {
	Platform  string   `json:"platform"`
	Text      string   `json:"text"`
	MediaRefs []string `json:"media_refs,omitempty"`
}

// Bundle is the immutable result of one generation call: the produced
// variations plus the request that produced them. A new generation replaces
// the bundle wholesale, it is never merged in place.
type Bundle struct {
	Variations []Variation       `json:"variations"`
	Request    GenerationRequest `json:"request"`
	CreatedAt  time.Time         `json:"created_at"`
}
