package conversation

import (
	"fmt"

	jsonschema "github.com/swaggest/jsonschema-go"

	"github.com/socialquill/quill/src/schema"
)

// ToolKind identifies which embeddable tool a tool-instance entry hosts.
type ToolKind string

const (
	KindPostGenerator ToolKind = "post_generator"
	KindVideoDubber   ToolKind = "video_dubber"
	KindAdGenerator   ToolKind = "ad_generator"
)

// Capability describes what a tool kind exposes: how it is rendered, whether
// it can invoke content generation, and the schema of its request form.
type Capability struct {
	Kind              ToolKind
	Title             string
	RenderContract    string
	AcceptsGeneration bool
	RequestSchema     *jsonschema.Schema
}

// Registry is the static lookup from tool kind to capability. It has no
// state and no failure modes: asking for an unknown kind is a programming
// error and panics rather than surfacing a runtime error to the user.
type Registry struct {
	capabilities map[ToolKind]Capability
}

// NewRegistry returns the registry with all built-in tool kinds.
func NewRegistry() *Registry {
	r := &Registry{capabilities: make(map[ToolKind]Capability)}
	for _, c := range builtinCapabilities() {
		r.capabilities[c.Kind] = c
	}
	return r
}

// Lookup returns the capability for the given kind. Panics on unknown kinds.
func (r *Registry) Lookup(kind ToolKind) Capability {
	c, ok := r.capabilities[kind]
	if !ok {
		panic(fmt.Sprintf("conversation: unknown tool kind %q", kind))
	}
	return c
}

// Known reports whether the kind is registered.
func (r *Registry) Known(kind ToolKind) bool {
	_, ok := r.capabilities[kind]
	return ok
}

// Kinds returns the registered kinds.
func (r *Registry) Kinds() []ToolKind {
	out := make([]ToolKind, 0, len(r.capabilities))
	for k := range r.capabilities {
		out = append(out, k)
	}
	return out
}

func builtinCapabilities() []Capability {
	platformSchema := schema.CreateStringSchemaEnum("target platform",
		[]string{"facebook", "instagram", "twitter", "linkedin", "tiktok", "youtube"})

	return []Capability{
		{
			Kind:              KindPostGenerator,
			Title:             "Post generator",
			RenderContract:    "post-form",
			AcceptsGeneration: true,
			RequestSchema: schema.CreateObjectSchema(map[string]*jsonschema.Schema{
				"prompt":    schema.CreateStringSchema("what the post should be about"),
				"platforms": schema.CreateArraySchema("platforms to generate for", platformSchema),
				"style":     schema.CreateStringSchema("tone of voice"),
				"audience":  schema.CreateStringSchema("intended audience"),
			}, []string{"prompt", "platforms"}),
		},
		{
			Kind:              KindVideoDubber,
			Title:             "Video dubber",
			RenderContract:    "dub-form",
			AcceptsGeneration: false,
			RequestSchema: schema.CreateObjectSchema(map[string]*jsonschema.Schema{
				"media_ref": schema.CreateStringSchema("reference of the uploaded video"),
				"language":  schema.CreateStringSchema("target language code"),
			}, []string{"media_ref", "language"}),
		},
		{
			Kind:              KindAdGenerator,
			Title:             "Ad generator",
			RenderContract:    "ad-form",
			AcceptsGeneration: true,
			RequestSchema: schema.CreateObjectSchema(map[string]*jsonschema.Schema{
				"prompt":    schema.CreateStringSchema("product or offer to advertise"),
				"platforms": schema.CreateArraySchema("platforms to generate for", platformSchema),
				"audience":  schema.CreateStringSchema("targeting description"),
			}, []string{"prompt", "platforms"}),
		},
	}
}
