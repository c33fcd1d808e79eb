package biz

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/tidwall/gjson"
)

// The model is a non-deterministic JSON emitter: it wraps its answer in
// prose, leaves trailing commas, or nests the object under a "report" key.
// Parsing therefore runs in stages, each more tolerant than the last, and
// only fails after every stage has given up.

var (
	// jsonSpanPattern greedily matches the outermost brace span.
	jsonSpanPattern = regexp.MustCompile(`(?s)\{.*\}`)

	trailingCommaObject = regexp.MustCompile(`,\s*\}`)
	trailingCommaArray  = regexp.MustCompile(`,\s*\]`)

	// referencePrefix matches an already-canonical "Sumber N:" prefix so
	// re-normalization never stacks or preserves stale indices.
	referencePrefix = regexp.MustCompile(`^Sumber \d+:\s*`)
)

// parseStrategy is one attempt at turning a JSON span into an object.
type parseStrategy struct {
	name string
	fn   func(span string) (map[string]interface{}, bool)
}

var parseStrategies = []parseStrategy{
	{"strict", parseStrict},
	{"comma-repair", parseCommaRepair},
	{"lenient", parseLenient},
}

func parseStrict(span string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func parseCommaRepair(span string) (map[string]interface{}, bool) {
	return parseStrict(repairTrailingCommas(span))
}

func parseLenient(span string) (map[string]interface{}, bool) {
	parsed := gjson.Parse(span)
	if !parsed.IsObject() {
		return nil, false
	}
	obj, ok := parsed.Value().(map[string]interface{})
	return obj, ok
}

func repairTrailingCommas(s string) string {
	s = trailingCommaObject.ReplaceAllString(s, "}")
	return trailingCommaArray.ReplaceAllString(s, "]")
}

// extractJSONSpan locates the JSON object embedded in the model's raw text,
// retrying after trailing-comma repair when the first match fails.
func extractJSONSpan(generated string) (string, bool) {
	if span := jsonSpanPattern.FindString(generated); span != "" {
		return span, true
	}
	if span := jsonSpanPattern.FindString(repairTrailingCommas(generated)); span != "" {
		return span, true
	}
	return "", false
}

// ParseReportObject extracts and parses the report object from raw model
// output. Error messages include the offending text: systematic prompt
// problems are only diagnosable from what the model actually said.
func ParseReportObject(generated string) (map[string]interface{}, error) {
	span, ok := extractJSONSpan(generated)
	if !ok {
		return nil, fmt.Errorf("failed to extract JSON from model response, raw output: %s", generated)
	}

	for _, strategy := range parseStrategies {
		if obj, ok := strategy.fn(span); ok {
			return unwrapReport(obj), nil
		}
	}

	return nil, fmt.Errorf("failed to parse model JSON, raw span: %s", span)
}

// unwrapReport flattens the occasional {"report": {...}} nesting.
func unwrapReport(obj map[string]interface{}) map[string]interface{} {
	if inner, ok := obj["report"].(map[string]interface{}); ok {
		return inner
	}
	return obj
}

// NormalizeReferences canonicalizes a references value of any accepted shape
// into "Sumber {i}: {title} ({link})" strings. The index is assigned by
// output position, never taken from the data, so indices have no gaps or
// duplicates regardless of how the model ordered or numbered its citations.
func NormalizeReferences(value interface{}) []string {
	entries, ok := value.([]interface{})
	if !ok {
		return []string{}
	}

	refs := make([]string, len(entries))
	for i, entry := range entries {
		switch v := entry.(type) {
		case string:
			refs[i] = fmt.Sprintf("Sumber %d: %s", i+1, referencePrefix.ReplaceAllString(v, ""))
		case map[string]interface{}:
			title, hasTitle := v["title"].(string)
			link, hasLink := v["link"].(string)
			if hasTitle && hasLink {
				refs[i] = fmt.Sprintf("Sumber %d: %s (%s)", i+1, title, link)
			} else {
				refs[i] = fmt.Sprintf("Sumber %d: %v", i+1, v)
			}
		default:
			refs[i] = fmt.Sprintf("Sumber %d: %v", i+1, v)
		}
	}
	return refs
}
