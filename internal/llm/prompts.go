package llm

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are assessing whether the provided comment text contains an answer " +
	"to the GitHub issue that is unambiguous and verifiable. " +
	"Focus solely on the comment text provided. Respond ONLY with 'true' or 'false'."

const assessmentPromptTemplate = `Issue Title: %s
Issue Body:
%s

--- Potential Answer Comment(s) ---
%s
--- End of Comment(s) ---

Based *only* on the text provided in "Potential Answer Comment(s)", does it contain an unambiguous and verifiable answer to the issue described?
Respond with only 'true' or 'false'.
`

const noBodyPlaceholder = "No body provided."

// BuildAssessmentPrompt renders the assessment prompt for one issue.
func BuildAssessmentPrompt(title, body, answerText string) string {
	if strings.TrimSpace(body) == "" {
		body = noBodyPlaceholder
	}

	return fmt.Sprintf(assessmentPromptTemplate, title, body, answerText)
}

// parseBoolVerdict extracts a true/false verdict from a model response,
// tolerating surrounding whitespace, punctuation, and casing.
func parseBoolVerdict(content string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(content))
	normalized = strings.Trim(normalized, ".!\"'`")

	switch {
	case strings.HasPrefix(normalized, "true"), strings.HasPrefix(normalized, "yes"):
		return true, nil
	case strings.HasPrefix(normalized, "false"), strings.HasPrefix(normalized, "no"):
		return false, nil
	}

	return false, fmt.Errorf("%w: %q", errUnparseableVerdict, content)
}
