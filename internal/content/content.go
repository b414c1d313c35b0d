// Package content defines the closed set of renderable content kinds the
// widget layer dispatches on, and the deterministic fallback templates
// used when generation degrades.
package content

import "encoding/json"

// Kind tags a piece of lesson content with the widget that renders it.
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindFillBlank      Kind = "fill-blank"
	KindDragDrop       Kind = "drag-drop"
	KindStepSolver     Kind = "step-solver"
	KindConceptCard    Kind = "concept-card"
	KindExplainer      Kind = "explainer"
	KindPlaceholder    Kind = "placeholder"
)

// Kinds lists every renderable kind.
func Kinds() []Kind {
	return []Kind{
		KindMultipleChoice,
		KindFillBlank,
		KindDragDrop,
		KindStepSolver,
		KindConceptCard,
		KindExplainer,
		KindPlaceholder,
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindFillBlank, KindDragDrop, KindStepSolver,
		KindConceptCard, KindExplainer, KindPlaceholder:
		return true
	}
	return false
}

// LessonContent is a typed payload for the widget layer.
type LessonContent struct {
	Type Kind            `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Difficulty levels for concepts and generated items.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyBeginner || d == DifficultyIntermediate || d == DifficultyAdvanced
}
