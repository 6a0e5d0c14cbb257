// Package schema provides helper functions for creating JSON Schema
// definitions.
//
// The tool registry uses these to describe each tool kind's generation
// request form, so rendering layers can build their inputs from the schema
// instead of hard-coding per-kind field lists.
//
// Example usage:
//
//	import "github.com/socialquill/quill/src/schema"
//
//	form := schema.CreateObjectSchema(map[string]*jsonschema.Schema{
//		"prompt":    schema.CreateStringSchema("what to write about"),
//		"platforms": schema.CreateArraySchema("target platforms", platform),
//	}, []string{"prompt", "platforms"})
package schema
