package llm

import (
	"regexp"
	"strings"
)

// ModelCost is the list price of a model in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of one call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1e6
}

// datedSuffix matches the snapshot date vendors append to model ids
// (claude-haiku-4-5-20251001, gpt-4o-2024-08-06).
var datedSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

// LookupCost returns the pricing for a model id, or nil if unknown.
// OpenRouter vendor prefixes ("google/") and snapshot dates are ignored
// when the exact id is not listed.
func LookupCost(modelID string) *ModelCost {
	for _, id := range costKeys(modelID) {
		if c, ok := modelCosts[id]; ok {
			return &c
		}
	}
	return nil
}

func costKeys(modelID string) []string {
	keys := []string{modelID}
	if _, name, ok := strings.Cut(modelID, "/"); ok {
		keys = append(keys, name)
		modelID = name
	}
	if base := datedSuffix.ReplaceAllString(modelID, ""); base != modelID {
		keys = append(keys, base)
	}
	return keys
}

// modelCosts lists the models lessons are usually generated with.
// Prices as published by the vendors in early 2026.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku":  {0.8, 4},
	"claude-3-7-sonnet": {3, 15},
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4-0": {3, 15},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4-1":   {15, 75},
	"claude-opus-4-5":   {5, 25},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"gpt-5.1":      {1.25, 10},
	"o3-mini":      {1.1, 4.4},
	"o4-mini":      {1.1, 4.4},

	// Google
	"gemini-2.0-flash":       {0.1, 0.4},
	"gemini-2.0-flash-lite":  {0.075, 0.3},
	"gemini-2.5-flash":       {0.3, 2.5},
	"gemini-2.5-flash-lite":  {0.1, 0.4},
	"gemini-2.5-pro":         {1.25, 10},
	"gemini-3-flash-preview": {0.5, 3},
	"gemini-3-pro-preview":   {2, 12},
	"gemini-flash-latest":    {0.3, 2.5},
}
