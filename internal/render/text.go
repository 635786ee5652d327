package render

import (
	"errors"
	"fmt"
	"io"
	"reviewsense/internal/model"
	"reviewsense/internal/pipeline"
)

// WriteEventText is the terminal counterpart of Renderer.Event.
func WriteEventText(w io.Writer, e pipeline.Event) error {
	text := stageTexts[e.Stage]

	var err error
	switch e.Phase {
	case pipeline.PhaseStarted:
		_, err = fmt.Fprintln(w, text.running)
	case pipeline.PhaseFailed:
		_, err = fmt.Fprintf(w, "error: %v\n", e.Err)
	default:
		_, err = fmt.Fprintf(w, "✅ %s\n\n%s\n\n", text.done, e.Output)
	}
	return err
}

// WriteReviewsText writes reviews as plain text with the same missing-field
// behaviour as Renderer.Reviews.
func WriteReviewsText(w io.Writer, reviews []model.Review) error {
	if _, err := fmt.Fprintln(w, "📝 Customer Reviews"); err != nil {
		return err
	}

	for i, r := range reviews {
		if err := r.CheckFields(i); err != nil {
			if _, werr := fmt.Fprintf(w, "error: %v\n", err); werr != nil {
				return errors.Join(err, werr)
			}
			return err
		}

		badge := ""
		if r.Verified {
			badge = " | ✅ Verified Purchase"
		}

		_, err := fmt.Fprintf(w, "---\n%s\n%s  %s\n%s\nColour: %s | Size: %s%s\n%s\n",
			r.Name, Stars(r.Rating), r.Title, r.Date, r.Color, r.Size, badge, r.Review)
		if err != nil {
			return err
		}
	}
	return nil
}
