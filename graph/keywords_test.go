package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywordsLowercasesAndFiltersStopwords(t *testing.T) {
	t.Parallel()

	got := ExtractKeywords("How do I plot a Graph with Matplotlib on Linux?")
	assert.Equal(t, []string{"plot", "graph", "matplotlib", "linux"}, got)
}

func TestExtractKeywordsDedupesPreservingFirstOccurrence(t *testing.T) {
	t.Parallel()

	got := ExtractKeywords("python loves python, and PYTHON loves pandas")
	assert.Equal(t, []string{"python", "loves", "pandas"}, got)
}

func TestExtractKeywordsSkipsShortTokens(t *testing.T) {
	t.Parallel()

	got := ExtractKeywords("go is ok but c99 rust 42 x")
	assert.Equal(t, []string{"c99", "rust"}, got)
}

func TestExtractKeywordsKeepsTechnicalPunctuation(t *testing.T) {
	t.Parallel()

	got := ExtractKeywords("compare c++ with node.js and dotnet_core")
	assert.Contains(t, got, "c++")
	assert.Contains(t, got, "node.js")
	assert.Contains(t, got, "dotnet_core")
}

func TestExtractKeywordsEmptyInput(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ExtractKeywords(""))
	assert.Empty(t, ExtractKeywords("the and of to"))
}
