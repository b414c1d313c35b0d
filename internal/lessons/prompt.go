package lessons

import (
	"fmt"
	"strings"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
)

const planSystemPrompt = `You are a curriculum designer for an interactive tutoring app. You break a subject into a short sequence of focused lessons, each built from small, ordered concepts.`

func buildPlanUserMessage(subject string, lessonCount int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subject: %s\n", subject))
	b.WriteString(fmt.Sprintf("Number of lessons: %d\n", lessonCount))

	b.WriteString(`
Instructions:
Create a lesson plan:
1. Order lessons from foundational to advanced. Each lesson should build on the previous one.
2. Give each lesson 2-4 concepts. Order concepts within a lesson from easiest to hardest.
3. Rate each concept's difficulty honestly: beginner, intermediate, or advanced.
4. Estimate 2-6 practice items per concept based on how much repetition it needs.
5. Keep titles short and concrete. Descriptions are one sentence each.`)

	return b.String()
}

func buildPlanUserMessageSimplified(subject string) string {
	return fmt.Sprintf("Subject: %s\n\nCreate a short lesson plan with 3 lessons of 2 concepts each. One-sentence descriptions. Rate difficulty beginner/intermediate/advanced and estimate 2-4 practice items per concept.", subject)
}

const contentSystemPrompt = `You are a patient, encouraging tutor creating one interactive exercise for a learner. The exercise is rendered by a widget, so your output must match the requested content type exactly.`

func buildContentUserMessage(subject string, lesson *Lesson, concept ConceptInfo, kind content.Kind, history []string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subject: %s\n", subject))
	b.WriteString(fmt.Sprintf("Lesson: %s (%s)\n", lesson.Title, lesson.Description))
	b.WriteString(fmt.Sprintf("Concept: %s (%s)\n", concept.Name, concept.Description))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", concept.Difficulty))
	b.WriteString(fmt.Sprintf("Content type: %s\n", kind))

	if len(history) > 0 {
		b.WriteString("\nRecently generated items (do NOT repeat these):\n")
		for _, h := range history {
			b.WriteString(fmt.Sprintf("- %s\n", h))
		}
	}

	b.WriteString(`
Instructions:
1. Create exactly one exercise of the requested content type for this concept, at the stated difficulty.
2. Vary the topic angle from the recent items above.
3. The data payload must be self-contained: the widget renders only what you return.
4. Use plain ASCII text. No LaTeX, no Unicode math symbols.`)

	return b.String()
}

func buildContentUserMessageSimplified(subject string, concept ConceptInfo, kind content.Kind) string {
	return fmt.Sprintf("Create one short %s exercise about %q for a %s learner studying %s. Keep the payload minimal but complete.", kind, concept.Name, concept.Difficulty, subject)
}

const criteriaSystemPrompt = `You are calibrating advancement thresholds for a tutoring app. Decide how much evidence of mastery a learner must show before moving to the next lesson in a subject.`

func buildCriteriaUserMessage(subject string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subject: %s\n", subject))

	b.WriteString(`
Instructions:
Choose advancement criteria for this subject:
1. minCorrectAnswers: 2-6. Procedural subjects (math, science) need more evidence than exploratory ones (art, music).
2. minTotalAttempts: at least minCorrectAnswers.
3. minAccuracy: 0.5-0.9.
4. adaptiveFactors: difficultyAdjustment in 0.5-1.5, engagementWeight in 0.05-0.3, retentionFactor in 0.6-1.0.
Return only values you would defend for a typical learner of this subject.`)

	return b.String()
}

const replySystemPrompt = `You are a warm, concise tutor reacting to what a learner just did. Encourage effort, correct gently, and never lecture.`

func buildReplyUserMessage(subject, action string, detail string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Subject: %s\n", subject))
	b.WriteString(fmt.Sprintf("Learner action: %s\n", action))
	if detail != "" {
		b.WriteString(fmt.Sprintf("Detail: %s\n", detail))
	}

	b.WriteString(`
Instructions:
Reply in 1-3 sentences. If the learner answered wrong, point toward the idea they missed without giving the answer away. If they answered right, acknowledge it and nudge them forward.`)

	return b.String()
}
