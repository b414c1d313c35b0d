// Package lessons generates lesson plans, lesson content, readiness
// criteria, and tutor replies through the orchestrated generation
// pipeline.
package lessons

import (
	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
)

// LessonPlan is the ordered curriculum for one subject.
type LessonPlan struct {
	Subject            string   `json:"subject"`
	Lessons            []Lesson `json:"lessons"`
	CurrentLessonIndex int      `json:"currentLessonIndex"`
}

// CurrentLesson returns the lesson at the plan's cursor.
// Returns (nil, false) when the plan is empty or the cursor is out of range.
func (p *LessonPlan) CurrentLesson() (*Lesson, bool) {
	if p == nil || p.CurrentLessonIndex < 0 || p.CurrentLessonIndex >= len(p.Lessons) {
		return nil, false
	}
	return &p.Lessons[p.CurrentLessonIndex], true
}

// Lesson is one unit of a plan. Concepts are ordered and traversed
// sequentially via CurrentConceptIndex.
type Lesson struct {
	ID                  string                 `json:"id"`
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	Completed           bool                   `json:"completed"`
	Concepts            []ConceptInfo          `json:"concepts"`
	CurrentConceptIndex int                    `json:"currentConceptIndex"`
	Content             *content.LessonContent `json:"content,omitempty"`
}

// CurrentConcept returns the concept at the lesson's cursor.
func (l *Lesson) CurrentConcept() (ConceptInfo, bool) {
	if l == nil || l.CurrentConceptIndex < 0 || l.CurrentConceptIndex >= len(l.Concepts) {
		return ConceptInfo{}, false
	}
	return l.Concepts[l.CurrentConceptIndex], true
}

// ConceptInfo describes one concept within a lesson.
type ConceptInfo struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	Description            string             `json:"description"`
	Difficulty             content.Difficulty `json:"difficulty"`
	EstimatedPracticeItems int                `json:"estimatedPracticeItems"`
}
