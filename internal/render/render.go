// Package render turns reviews and stage outputs into the HTML page, written
// piece by piece so a handler can flush each part as soon as it exists.
package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io"
	"reviewsense/internal/model"
	"reviewsense/internal/pipeline"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const MaxStars = 5

const (
	filledStar = "⭐"
	emptyStar  = "☆"
)

//go:embed templates/*.html
var templateFS embed.FS

type stageText struct {
	running string
	done    string
}

var stageTexts = map[pipeline.Stage]stageText{
	pipeline.StageExtraction: {running: "🔍 Step 1: Extracting pros and cons...", done: "Step 1: Extracted Pros and Cons"},
	pipeline.StageGrouping:   {running: "📊 Step 2: Grouping similar themes...", done: "Step 2: Grouped Feedback"},
	pipeline.StageSummary:    {running: "🧾 Step 3: Writing summary report...", done: "Step 3: Summary Ready"},
}

// Stars renders rating as filled stars padded with empty ones to MaxStars.
// Ratings outside 0..MaxStars are clamped.
func Stars(rating int) string {
	rating = max(0, min(rating, MaxStars))
	return strings.Repeat(filledStar, rating) + strings.Repeat(emptyStar, MaxStars-rating)
}

type ReviewView struct {
	Name     string
	Stars    string
	Title    string
	Date     string
	Color    string
	Size     string
	Verified bool
	Body     string
}

func NewReviewView(r model.Review) ReviewView {
	return ReviewView{
		Name:     r.Name,
		Stars:    Stars(r.Rating),
		Title:    r.Title,
		Date:     r.Date,
		Color:    r.Color,
		Size:     r.Size,
		Verified: r.Verified,
		Body:     r.Review,
	}
}

type Renderer struct {
	tmpl *template.Template
	md   goldmark.Markdown
}

func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Renderer{
		tmpl: tmpl,
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}, nil
}

// Header writes the page head and upload form. filename may be empty.
func (r *Renderer) Header(w io.Writer, filename string) error {
	return r.tmpl.ExecuteTemplate(w, "header", filename)
}

func (r *Renderer) Footer(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "footer", nil)
}

func (r *Renderer) Error(w io.Writer, err error) error {
	return r.tmpl.ExecuteTemplate(w, "error", err.Error())
}

// Event writes the page fragment for one pipeline event: a progress line when
// a stage starts, the stage output when it completes, the error when it fails.
func (r *Renderer) Event(w io.Writer, e pipeline.Event) error {
	text := stageTexts[e.Stage]

	switch e.Phase {
	case pipeline.PhaseStarted:
		return r.tmpl.ExecuteTemplate(w, "progress", map[string]any{"Stage": e.Stage.String(), "Text": text.running})
	case pipeline.PhaseFailed:
		return r.Error(w, e.Err)
	}

	if e.Stage == pipeline.StageSummary {
		html, err := r.Markdown(e.Output)
		if err != nil {
			return err
		}
		return r.tmpl.ExecuteTemplate(w, "summary", map[string]any{"Text": text.done, "HTML": html})
	}

	return r.tmpl.ExecuteTemplate(w, "stage", map[string]any{"Text": text.done, "Output": e.Output})
}

// Markdown converts model output to HTML. Raw HTML in the source is dropped.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Reviews writes one card per review in order. A review missing a required
// key stops rendering: the cards before it stay, the MissingFieldError is
// written in its place and returned.
func (r *Renderer) Reviews(w io.Writer, reviews []model.Review) error {
	if err := r.tmpl.ExecuteTemplate(w, "reviews_heading", nil); err != nil {
		return err
	}

	for i, review := range reviews {
		if err := review.CheckFields(i); err != nil {
			if werr := r.Error(w, err); werr != nil {
				return errors.Join(err, werr)
			}
			return err
		}
		if err := r.tmpl.ExecuteTemplate(w, "review", NewReviewView(review)); err != nil {
			return err
		}
	}
	return nil
}
