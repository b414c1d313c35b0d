package content

import (
	"encoding/json"
	"fmt"
)

// Fallback returns a deterministic, locally generated piece of content
// for the given kind and topic. It is the single fallback-resolution
// point used when the generation pipeline degrades, so every kind must
// produce something the widget layer can render.
func Fallback(kind Kind, topic string) LessonContent {
	if topic == "" {
		topic = "this topic"
	}

	var data any
	switch kind {
	case KindMultipleChoice:
		data = map[string]any{
			"question": fmt.Sprintf("Which statement best describes %s?", topic),
			"options": []string{
				fmt.Sprintf("%s is a key idea worth practicing", topic),
				"It has no connection to this lesson",
				"It only appears in advanced material",
				"It cannot be practiced with examples",
			},
			"correctIndex": 0,
			"explanation":  fmt.Sprintf("Revisiting the core idea of %s helps it stick.", topic),
		}
	case KindFillBlank:
		data = map[string]any{
			"sentence": fmt.Sprintf("The main idea of this lesson is ____. (Hint: it relates to %s.)", topic),
			"answer":   topic,
			"hint":     fmt.Sprintf("Think about what %s means in your own words.", topic),
		}
	case KindDragDrop:
		data = map[string]any{
			"instructions": fmt.Sprintf("Match each term about %s to its description.", topic),
			"items":        []string{"Key idea", "Example", "Practice"},
			"targets": []string{
				fmt.Sprintf("The central concept of %s", topic),
				"A concrete case that shows the idea",
				"A way to strengthen your understanding",
			},
		}
	case KindStepSolver:
		data = map[string]any{
			"problem": fmt.Sprintf("Walk through a simple example of %s.", topic),
			"steps": []string{
				"Restate the problem in your own words",
				"Identify the key idea involved",
				"Apply the idea one step at a time",
				"Check the result makes sense",
			},
		}
	case KindConceptCard:
		data = map[string]any{
			"title":   topic,
			"summary": fmt.Sprintf("%s is the focus of this lesson. Take a moment to review what you already know about it.", topic),
			"example": fmt.Sprintf("Try explaining %s to someone else in one sentence.", topic),
		}
	case KindExplainer:
		data = map[string]any{
			"title": fmt.Sprintf("Understanding %s", topic),
			"body":  fmt.Sprintf("Let's take this step by step. %s builds on ideas you have already seen; review the previous examples and try the practice again.", topic),
		}
	default:
		kind = KindPlaceholder
		data = map[string]any{
			"message": fmt.Sprintf("We're preparing your %s activity. Try again shortly.", topic),
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		raw = json.RawMessage(`{"message":"Content is on its way."}`)
	}
	return LessonContent{Type: kind, Data: raw}
}

// FallbackReply returns a deterministic tutor reply for when response
// generation fails.
func FallbackReply(subject string) string {
	if subject == "" {
		return "Good effort! Keep going, practice is how ideas stick."
	}
	return fmt.Sprintf("Good effort! Keep practicing %s, every attempt helps it stick.", subject)
}
