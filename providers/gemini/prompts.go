package gemini

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matthewmueller/webfetch"
)

const (
	// Characters of page content embedded per source
	summaryLimit    = 15_000
	extractionLimit = 15_000
	comparisonLimit = 8_000
)

const summaryPrompt = `Summarize the web page below in English. Be concise and accurate and focus on the main points.

Source: %s

Page content:
%s

Respond with:
1. A summary of 2-3 paragraphs
2. The key points as a bulleted list
3. What kind of content this is (news, technical documentation, blog post, etc.)`

const comparisonPrompt = `Compare the web pages below and write a detailed analysis in English.

%s

Respond with:
1. The similarities and differences between the pages
2. The viewpoints that are unique to each page
3. An overall conclusion with recommendations
4. An assessment of the quality of each page`

const extractionPrompt = `Extract information from the web page below according to these instructions:

Instructions: %s
Source: %s

Page content:
%s

When responding:
1. Extract exactly the information that was asked for
2. Say so plainly if the page doesn't contain it
3. Use the format the instructions ask for
4. Explain the context the extracted information comes from`

// groundedPrompt builds the instructions for a grounded request
func groundedPrompt(req *webfetch.Grounded) (string, error) {
	if len(req.Contents) == 0 {
		return "", errors.New("gemini: grounded generation requires content")
	}
	switch req.Kind {
	case webfetch.KindSummarize:
		content := req.Contents[0]
		return fmt.Sprintf(summaryPrompt, content.URL, webfetch.Truncate(content.Text, summaryLimit)), nil
	case webfetch.KindExtract:
		content := req.Contents[0]
		return fmt.Sprintf(extractionPrompt, req.Instruction, content.URL, webfetch.Truncate(content.Text, extractionLimit)), nil
	case webfetch.KindCompare:
		sections := make([]string, len(req.Contents))
		for i, content := range req.Contents {
			sections[i] = fmt.Sprintf("Page %d (Source: %s):\n%s", i+1, content.URL, webfetch.Truncate(content.Text, comparisonLimit))
		}
		return fmt.Sprintf(comparisonPrompt, strings.Join(sections, "\n\n---\n\n")), nil
	default:
		return "", fmt.Errorf("gemini: unknown operation %q", req.Kind)
	}
}
