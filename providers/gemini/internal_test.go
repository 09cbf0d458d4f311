package gemini

import (
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/matthewmueller/webfetch"
	"google.golang.org/genai"
)

func TestToStatus(t *testing.T) {
	is := is.New(t)
	is.Equal(toStatus(genai.URLRetrievalStatusSuccess), webfetch.StatusSuccess)
	is.Equal(toStatus(genai.URLRetrievalStatusError), webfetch.StatusFailure)
	is.Equal(toStatus(genai.URLRetrievalStatusUnspecified), webfetch.StatusUnknown)
	is.Equal(toStatus(""), webfetch.StatusUnknown)
}

func TestSummaryPrompt(t *testing.T) {
	is := is.New(t)
	prompt, err := groundedPrompt(&webfetch.Grounded{
		Kind:     webfetch.KindSummarize,
		Contents: []*webfetch.Content{{URL: "https://a.com", Text: strings.Repeat("x", summaryLimit+10)}},
	})
	is.NoErr(err)
	is.True(strings.Contains(prompt, "Source: https://a.com"))
	is.True(strings.Contains(prompt, strings.Repeat("x", summaryLimit)))
	is.True(!strings.Contains(prompt, strings.Repeat("x", summaryLimit+1)))
	is.True(strings.Contains(prompt, "2-3 paragraphs"))
	is.True(strings.Contains(prompt, "bulleted list"))
}

func TestComparisonPrompt(t *testing.T) {
	is := is.New(t)
	prompt, err := groundedPrompt(&webfetch.Grounded{
		Kind: webfetch.KindCompare,
		Contents: []*webfetch.Content{
			{URL: "https://a.com", Text: strings.Repeat("a", comparisonLimit+10)},
			{URL: "https://b.com", Text: "page b"},
		},
	})
	is.NoErr(err)
	is.True(strings.Contains(prompt, "Page 1 (Source: https://a.com):\n"))
	is.True(strings.Contains(prompt, "Page 2 (Source: https://b.com):\npage b"))
	is.True(strings.Contains(prompt, "\n\n---\n\n"))
	is.True(!strings.Contains(prompt, strings.Repeat("a", comparisonLimit+1)))
	is.True(strings.Index(prompt, "https://a.com") < strings.Index(prompt, "https://b.com"))
}

func TestExtractionPrompt(t *testing.T) {
	is := is.New(t)
	prompt, err := groundedPrompt(&webfetch.Grounded{
		Kind:        webfetch.KindExtract,
		Instruction: "list every author as JSON",
		Contents:    []*webfetch.Content{{URL: "https://a.com", Text: "by Ada and Grace"}},
	})
	is.NoErr(err)
	is.True(strings.Contains(prompt, "Instructions: list every author as JSON"))
	is.True(strings.Contains(prompt, "Source: https://a.com"))
	is.True(strings.Contains(prompt, "by Ada and Grace"))
}

func TestPromptDeterministic(t *testing.T) {
	is := is.New(t)
	req := &webfetch.Grounded{
		Kind:     webfetch.KindSummarize,
		Contents: []*webfetch.Content{{URL: "https://a.com", Text: "page"}},
	}
	first, err := groundedPrompt(req)
	is.NoErr(err)
	second, err := groundedPrompt(req)
	is.NoErr(err)
	is.Equal(first, second)
}

func TestPromptUnknownKind(t *testing.T) {
	is := is.New(t)
	_, err := groundedPrompt(&webfetch.Grounded{
		Kind:     webfetch.Kind("translate"),
		Contents: []*webfetch.Content{{URL: "https://a.com", Text: "page"}},
	})
	is.True(err != nil)
}
