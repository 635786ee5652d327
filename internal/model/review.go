package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errNotObject = errors.New("review must be a JSON object")

// RequiredFields lists the review keys the page needs to render a card, in display order.
var RequiredFields = []string{"name", "rating", "title", "date", "color", "size", "review"}

type Review struct {
	Name     string `json:"name"`
	Rating   int    `json:"rating"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Color    string `json:"color"`
	Size     string `json:"size"`
	Verified bool   `json:"verified"`
	Review   string `json:"review"`

	present map[string]bool
	raw     json.RawMessage
}

func (r *Review) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return errNotObject
	}

	type plain Review
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*r = Review(p)
	r.present = make(map[string]bool, len(fields))
	for k := range fields {
		r.present[k] = true
	}
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the object as uploaded when the review came from a
// document, so re-serialization keeps key order and unknown keys.
func (r Review) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain Review
	return json.Marshal(plain(r))
}

// Has reports whether key was present in the uploaded object.
func (r Review) Has(key string) bool {
	return r.present[key]
}

// Raw returns the object exactly as it was uploaded.
func (r Review) Raw() json.RawMessage {
	return r.raw
}

// CheckFields returns a MissingFieldError for the first required key absent from the upload.
// index is the review's position in the batch and is only used for the error.
func (r Review) CheckFields(index int) error {
	for _, f := range RequiredFields {
		if !r.present[f] {
			return &MissingFieldError{Index: index, Field: f}
		}
	}
	return nil
}

type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("review %d: missing field %q", e.Index, e.Field)
}
