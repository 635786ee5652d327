package llm

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain JSON unchanged",
			input: `{"common_pros":["a"]}`,
			want:  `{"common_pros":["a"]}`,
		},
		{
			name:  "strips json fenced block",
			input: "```json\n{\"common_pros\":[\"a\"]}\n```",
			want:  `{"common_pros":["a"]}`,
		},
		{
			name:  "strips plain fenced block",
			input: "```\n{\"common_pros\":[\"a\"]}\n```",
			want:  `{"common_pros":["a"]}`,
		},
		{
			name:  "trims surrounding whitespace",
			input: "  {\"common_pros\":[\"a\"]}  ",
			want:  `{"common_pros":["a"]}`,
		},
		{
			name:  "drops surrounding prose",
			input: "Here are the themes:\n{\"common_pros\":[\"a\"]}\nHope this helps.",
			want:  `{"common_pros":["a"]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanJSONResponse(tt.input, '{', '}')
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseExtraction(t *testing.T) {
	text := "```json\n[\n  {\"pros\": [\"Great battery\"], \"cons\": [\"Poor speaker\"]},\n  {\"pros\": [], \"cons\": [\"Runs hot\"]}\n]\n```"

	items, ok := ParseExtraction(text)

	assert.Equal(t, true, ok)
	assert.Equal(t, 2, len(items))
	assert.Equal(t, []string{"Great battery"}, items[0].Pros)
	assert.Equal(t, []string{"Poor speaker"}, items[0].Cons)
	assert.Equal(t, []string{"Runs hot"}, items[1].Cons)
}

func TestParseExtraction_RepairsTrailingComma(t *testing.T) {
	items, ok := ParseExtraction(`[{"pros": ["Light",], "cons": []},]`)

	assert.Equal(t, true, ok)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, []string{"Light"}, items[0].Pros)
}

func TestParseThemes(t *testing.T) {
	themes, ok := ParseThemes(`{"common_pros": ["Long battery life"], "common_cons": ["Weak speaker"]}`)

	assert.Equal(t, true, ok)
	assert.Equal(t, []string{"Long battery life"}, themes.CommonPros)
	assert.Equal(t, []string{"Weak speaker"}, themes.CommonCons)
}

func TestParseThemes_FallsBack(t *testing.T) {
	themes, ok := ParseThemes("")

	assert.Equal(t, false, ok)
	assert.Equal(t, true, themes == nil)
}

func TestParseThemes_RejectsUnrelatedObject(t *testing.T) {
	themes, ok := ParseThemes(`{"foo": 1}`)

	assert.Equal(t, false, ok)
	assert.Equal(t, true, themes == nil)
}

func TestParseThemes_EmptyListsAreAGrouping(t *testing.T) {
	themes, ok := ParseThemes(`{"common_pros": [], "common_cons": ["Weak speaker"]}`)

	assert.Equal(t, true, ok)
	assert.Equal(t, 0, len(themes.CommonPros))
	assert.Equal(t, []string{"Weak speaker"}, themes.CommonCons)
}
