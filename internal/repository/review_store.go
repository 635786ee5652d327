package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reviewsense/internal/model"
)

// ParseError reports an upload that is not a JSON array of review objects.
// Index is -1 when the document itself could not be decoded.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid reviews document: %v", e.Err)
	}
	return fmt.Sprintf("invalid review at index %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadReviews decodes an uploaded JSON array of reviews, keeping document order.
// Missing keys are not checked here; see model.Review.CheckFields.
func LoadReviews(r io.Reader) ([]model.Review, error) {
	dec := json.NewDecoder(r)

	var items []json.RawMessage
	if err := dec.Decode(&items); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}
	if items == nil {
		return nil, &ParseError{Index: -1, Err: errors.New("document must be a JSON array")}
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after reviews array")
		}
		return nil, &ParseError{Index: -1, Err: err}
	}

	reviews := make([]model.Review, len(items))
	for i, item := range items {
		if err := reviews[i].UnmarshalJSON(item); err != nil {
			return nil, &ParseError{Index: i, Err: err}
		}
	}

	return reviews, nil
}
