package llm

import (
	"bytes"
	"encoding/json"
	"reviewsense/internal/model"
	"strings"
)

const ExtractionSystemPrompt = "You are a helpful assistant trained to analyze product reviews."

const extractionPrompt = `You are a professional customer review analyst.

Your task is to extract **key pros and cons** from each review. Provide the output as a **list of dictionaries**, where each dictionary represents a review and contains:
- "pros": A list of specific positive points
- "cons": A list of specific negative points

Only include factual or sentiment-backed observations (not vague statements).

Example format:
[
  {
    "pros": ["Excellent display in sunlight", "Fast performance"],
    "cons": ["Battery drains fast"]
  },
  ...
]

Here are the reviews:
`

const groupingPrompt = `You are an AI assistant helping to synthesize customer feedback.

From the extracted pros and cons below, identify **common themes** by grouping similar or semantically equivalent feedback into categories.

Return a JSON object with:
- "common_pros": List of grouped positive themes
- "common_cons": List of grouped negative themes

Avoid repeating similar items.

Example output:
{
  "common_pros": ["Excellent camera performance", "Bright and vibrant display", "Fast and smooth app experience"],
  "common_cons": ["Battery drains quickly", "Device gets warm during usage"]
}

Extracted pros and cons:
`

const summaryPrompt = `You are an AI product analyst.

Using the grouped customer feedback below, write a professional summary highlighting the main strengths and weaknesses of the product.

Structure:
**Strengths**
- Bullet point 1
- Bullet point 2
- ...

**Weaknesses**
- Bullet point 1
- Bullet point 2
- ...

Limit each section to **3–4 concise points**. Make it useful for product managers and stakeholders.

Grouped Feedback:
`

// BuildExtractionPrompt embeds the reviews as indented JSON, each object as it was uploaded.
func BuildExtractionPrompt(reviews []model.Review) string {
	return extractionPrompt + formatReviews(reviews) + "\n"
}

// BuildGroupingPrompt embeds the extraction output verbatim.
func BuildGroupingPrompt(extraction string) string {
	return groupingPrompt + extraction + "\n"
}

// BuildSummaryPrompt embeds the grouping output verbatim.
func BuildSummaryPrompt(grouping string) string {
	return summaryPrompt + grouping + "\n"
}

func formatReviews(reviews []model.Review) string {
	if reviews == nil {
		reviews = []model.Review{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Review.MarshalJSON returns either the uploaded bytes, which UnmarshalJSON
	// only keeps for JSON objects, or a plain struct encoding. Neither can fail.
	_ = enc.Encode(reviews)

	return strings.TrimSuffix(buf.String(), "\n")
}
