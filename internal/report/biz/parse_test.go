package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportObject_StrictJSON(t *testing.T) {
	obj, err := ParseReportObject(`Here is your report:
{"title": "T", "analysis": "A"}
Hope this helps!`)
	require.NoError(t, err)
	assert.Equal(t, "T", obj["title"])
	assert.Equal(t, "A", obj["analysis"])
}

func TestParseReportObject_TrailingCommas(t *testing.T) {
	obj, err := ParseReportObject(`{
		"title": "T",
		"references": ["a", "b",],
	}`)
	require.NoError(t, err)
	assert.Equal(t, "T", obj["title"])

	refs := obj["references"].([]interface{})
	assert.Equal(t, []interface{}{"a", "b"}, refs)
}

func TestParseReportObject_WrappedAndUnwrappedAreEquivalent(t *testing.T) {
	wrapped, err := ParseReportObject(`{"report": {"title": "T", "conclusion": "C"}}`)
	require.NoError(t, err)

	unwrapped, err := ParseReportObject(`{"title": "T", "conclusion": "C"}`)
	require.NoError(t, err)

	assert.Equal(t, unwrapped, wrapped)
}

func TestParseReportObject_NoJSON(t *testing.T) {
	_, err := ParseReportObject("I am sorry, I cannot produce a report.")
	require.Error(t, err)
	// The raw output is preserved for diagnosis.
	assert.Contains(t, err.Error(), "I am sorry, I cannot produce a report.")
}

func TestParseReportObject_EmptyInput(t *testing.T) {
	_, err := ParseReportObject("")
	assert.Error(t, err)
}

func TestParseReportObject_Idempotent(t *testing.T) {
	raw := `{"report": {"title": "T", "references": ["x",],}}`
	first, err := ParseReportObject(raw)
	require.NoError(t, err)
	second, err := ParseReportObject(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestNormalizeReferences_Shapes(t *testing.T) {
	refs := NormalizeReferences([]interface{}{
		"Machine Learning Basics (https://ml.example.com)",
		map[string]interface{}{"title": "Deep Learning", "link": "https://dl.example.com"},
		42,
	})

	require.Len(t, refs, 3)
	assert.Equal(t, "Sumber 1: Machine Learning Basics (https://ml.example.com)", refs[0])
	assert.Equal(t, "Sumber 2: Deep Learning (https://dl.example.com)", refs[1])
	assert.Equal(t, "Sumber 3: 42", refs[2])
}

func TestNormalizeReferences_ReindexesExistingPrefixes(t *testing.T) {
	// The model sometimes numbers its own citations; positions win, so the
	// stale indices are stripped instead of stacked.
	refs := NormalizeReferences([]interface{}{
		"Sumber 7: First (https://a.example.com)",
		"Sumber 2: Second (https://b.example.com)",
	})

	assert.Equal(t, "Sumber 1: First (https://a.example.com)", refs[0])
	assert.Equal(t, "Sumber 2: Second (https://b.example.com)", refs[1])
}

func TestNormalizeReferences_NoGapsOrDuplicates(t *testing.T) {
	entries := []interface{}{"a", "b", "c", "d", "e"}
	refs := NormalizeReferences(entries)

	require.Len(t, refs, len(entries))
	for i, ref := range refs {
		assert.Regexp(t, `^Sumber \d+: `, ref)
		assert.Contains(t, ref, "Sumber "+string(rune('1'+i))+": ")
	}
}

func TestNormalizeReferences_NonArray(t *testing.T) {
	assert.Empty(t, NormalizeReferences("not an array"))
	assert.Empty(t, NormalizeReferences(nil))
}
