// Package content holds the static tutorial material: guides made of
// ordered units (sections, steps or phases), each with explanations and
// code samples. Guides are loaded once from YAML and never mutated.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultLanguage is assumed for code samples that declare none.
const DefaultLanguage = "python"

// ErrInvalidContent is wrapped by every validation failure.
var ErrInvalidContent = errors.New("invalid content")

// ValidationError describes why a guide was rejected.
type ValidationError struct {
	Guide  string // guide id (or file name when the id is missing)
	Field  string // offending field path, e.g. "units[2].id"
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("guide %q: %s: %s", e.Guide, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidContent
}

// CodeSample is a copyable block of code.
type CodeSample struct {
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
	Text     string `yaml:"text" json:"text"`
}

// Lang returns the declared language, or DefaultLanguage.
func (c CodeSample) Lang() string {
	if c.Language == "" {
		return DefaultLanguage
	}
	return c.Language
}

// Item is one numbered entry in a unit's body.
type Item struct {
	Title       string      `yaml:"title" json:"title"`
	Content     string      `yaml:"content,omitempty" json:"content,omitempty"`
	Code        *CodeSample `yaml:"code,omitempty" json:"code,omitempty"`
	Explanation string      `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Tip         string      `yaml:"tip,omitempty" json:"tip,omitempty"`
}

// Exercise is the practice task closing a unit.
type Exercise struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Steps       []string `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Unit is one section, step or phase of a guide.
type Unit struct {
	ID            string    `yaml:"id" json:"id"`
	Title         string    `yaml:"title" json:"title"`
	Description   string    `yaml:"description,omitempty" json:"description,omitempty"`
	Difficulty    string    `yaml:"difficulty,omitempty" json:"difficulty,omitempty"`
	TimeEstimate  string    `yaml:"time_estimate,omitempty" json:"time_estimate,omitempty"`
	Objectives    []string  `yaml:"objectives,omitempty" json:"objectives,omitempty"`
	Prerequisites []string  `yaml:"prerequisites,omitempty" json:"prerequisites,omitempty"`
	Explanation   string    `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Body          []Item    `yaml:"body,omitempty" json:"body,omitempty"`
	Exercise      *Exercise `yaml:"exercise,omitempty" json:"exercise,omitempty"`

	// Interactive names a widget shown with this unit ("playground").
	Interactive string `yaml:"interactive,omitempty" json:"interactive,omitempty"`
}

// CodeItems returns the indices of body items that carry a code sample.
func (u Unit) CodeItems() []int {
	var idx []int
	for i, item := range u.Body {
		if item.Code != nil && strings.TrimSpace(item.Code.Text) != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

// Guide is an ordered, immutable list of units.
type Guide struct {
	ID       string `yaml:"id" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Subtitle string `yaml:"subtitle,omitempty" json:"subtitle,omitempty"`
	// UnitNoun names a unit in the UI: "section", "step" or "phase".
	UnitNoun string `yaml:"unit_noun,omitempty" json:"unit_noun,omitempty"`
	// Order positions the guide among its siblings; 0 sorts last.
	Order int    `yaml:"order,omitempty" json:"order,omitempty"`
	Units []Unit `yaml:"units" json:"units"`
}

// Len returns the number of units.
func (g Guide) Len() int {
	return len(g.Units)
}

// Unit returns the unit at index i.
func (g Guide) Unit(i int) (Unit, bool) {
	if i < 0 || i >= len(g.Units) {
		return Unit{}, false
	}
	return g.Units[i], true
}

// IndexOf returns the index of the unit with the given id, or -1.
func (g Guide) IndexOf(id string) int {
	for i, u := range g.Units {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// Noun returns UnitNoun with a default.
func (g Guide) Noun() string {
	if g.UnitNoun == "" {
		return "step"
	}
	return g.UnitNoun
}

// CodeBlockID builds the opaque identifier used to target copy
// acknowledgments at one code sample.
func CodeBlockID(guideID, unitID string, item int) string {
	return fmt.Sprintf("%s/%s/#%d", guideID, unitID, item)
}

// Validate checks the invariants every guide must hold.
func (g Guide) Validate() error {
	invalid := func(field, reason string) error {
		return &ValidationError{Guide: g.ID, Field: field, Reason: reason}
	}

	if strings.TrimSpace(g.ID) == "" {
		return invalid("id", "is required")
	}
	if strings.TrimSpace(g.Title) == "" {
		return invalid("title", "is required")
	}
	if len(g.Units) == 0 {
		return invalid("units", "must contain at least one unit")
	}

	seen := make(map[string]int, len(g.Units))
	for i, u := range g.Units {
		field := fmt.Sprintf("units[%d]", i)
		if strings.TrimSpace(u.ID) == "" {
			return invalid(field+".id", "is required")
		}
		if prev, dup := seen[u.ID]; dup {
			return invalid(field+".id", fmt.Sprintf("duplicate id %q (also units[%d])", u.ID, prev))
		}
		seen[u.ID] = i
		if strings.TrimSpace(u.Title) == "" {
			return invalid(field+".title", "is required")
		}
		for j, item := range u.Body {
			if item.Code != nil && item.Code.Text == "" {
				return invalid(fmt.Sprintf("%s.body[%d].code.text", field, j), "is empty")
			}
		}
	}
	return nil
}
