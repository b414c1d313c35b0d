package lessons

import (
	"encoding/json"
	"fmt"
)

// fallbackPlanJSON builds a deterministic starter plan for a subject,
// in the same shape generation produces. Used when every generation
// path for a plan fails.
func fallbackPlanJSON(subject string) json.RawMessage {
	out := planOutput{Subject: subject}
	stages := []struct {
		title, desc, difficulty string
	}{
		{"Getting Started with " + subject, fmt.Sprintf("Core vocabulary and the most basic ideas of %s.", subject), "beginner"},
		{"Building Blocks", fmt.Sprintf("The fundamental techniques of %s, practiced step by step.", subject), "intermediate"},
		{"Putting It Together", fmt.Sprintf("Applying %s skills to small multi-step problems.", subject), "advanced"},
	}
	for _, st := range stages {
		out.Lessons = append(out.Lessons, planLessonOutput{
			Title:       st.title,
			Description: st.desc,
			Concepts: []planConceptOutput{
				{
					Name:                   "Key ideas",
					Description:            st.desc,
					Difficulty:             st.difficulty,
					EstimatedPracticeItems: 3,
				},
				{
					Name:                   "Practice",
					Description:            "Guided practice on the lesson's key ideas.",
					Difficulty:             st.difficulty,
					EstimatedPracticeItems: 4,
				},
			},
		})
	}
	data, _ := json.Marshal(out)
	return data
}
