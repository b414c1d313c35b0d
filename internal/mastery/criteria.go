package mastery

import "strings"

// AdaptiveFactors tune how raw thresholds bend to the learner.
type AdaptiveFactors struct {
	// DifficultyAdjustment scales the required correct count.
	DifficultyAdjustment float64 `json:"difficultyAdjustment"`

	// EngagementWeight scales how much the engagement score shifts the
	// accuracy bar.
	EngagementWeight float64 `json:"engagementWeight"`

	// RetentionFactor discounts mastery over time between sessions.
	RetentionFactor float64 `json:"retentionFactor"`
}

// Criteria are the readiness thresholds for one subject. Derived once
// per subject, from a generation call when available, otherwise from
// the static presets below.
type Criteria struct {
	MinCorrectAnswers int             `json:"minCorrectAnswers"`
	MinTotalAttempts  int             `json:"minTotalAttempts"`
	MinAccuracy       float64         `json:"minAccuracy"`
	Factors           AdaptiveFactors `json:"adaptiveFactors"`
}

// Clamp bounds criteria to sane ranges. Model-derived criteria pass
// through here so a hallucinated threshold cannot lock a learner in
// place or wave everyone through.
func (c Criteria) Clamp() Criteria {
	if c.MinCorrectAnswers < 1 {
		c.MinCorrectAnswers = 1
	}
	if c.MinTotalAttempts < c.MinCorrectAnswers {
		c.MinTotalAttempts = c.MinCorrectAnswers
	}
	if c.MinAccuracy < 0.3 {
		c.MinAccuracy = 0.3
	}
	if c.MinAccuracy > 0.95 {
		c.MinAccuracy = 0.95
	}
	if c.Factors.DifficultyAdjustment < 0.5 || c.Factors.DifficultyAdjustment > 1.5 {
		c.Factors.DifficultyAdjustment = 1.0
	}
	if c.Factors.EngagementWeight < 0 || c.Factors.EngagementWeight > 0.5 {
		c.Factors.EngagementWeight = 0.1
	}
	if c.Factors.RetentionFactor <= 0 || c.Factors.RetentionFactor > 1 {
		c.Factors.RetentionFactor = 0.8
	}
	return c
}

// Category is a coarse topic grouping used to pick criteria presets.
type Category string

const (
	CategoryMathScience   Category = "math-science"
	CategoryLanguageArts  Category = "language-arts"
	CategoryCreative      Category = "creative"
	CategorySocialStudies Category = "social-studies"
	CategoryGeneral       Category = "general"
)

// categoryKeywords maps subject-name substrings to categories.
// Checked in order; first match wins.
var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryMathScience, []string{"math", "algebra", "geometry", "calculus", "arithmetic", "science", "physics", "chemistry", "biology"}},
	{CategoryLanguageArts, []string{"english", "reading", "writing", "grammar", "spelling", "vocabulary", "language"}},
	{CategoryCreative, []string{"art", "music", "creative", "drawing", "design"}},
	{CategorySocialStudies, []string{"history", "geography", "social", "civics", "culture"}},
}

// CategoryFor classifies a subject by name.
func CategoryFor(subject string) Category {
	name := strings.ToLower(subject)
	for _, entry := range categoryKeywords {
		for _, word := range entry.words {
			if strings.Contains(name, word) {
				return entry.category
			}
		}
	}
	return CategoryGeneral
}

// presets are the static heuristic criteria per category, used when no
// generated criteria exist for a subject.
var presets = map[Category]Criteria{
	CategoryMathScience: {
		MinCorrectAnswers: 4,
		MinTotalAttempts:  5,
		MinAccuracy:       0.75,
		Factors:           AdaptiveFactors{DifficultyAdjustment: 1.0, EngagementWeight: 0.1, RetentionFactor: 0.85},
	},
	CategoryLanguageArts: {
		MinCorrectAnswers: 3,
		MinTotalAttempts:  4,
		MinAccuracy:       0.7,
		Factors:           AdaptiveFactors{DifficultyAdjustment: 0.9, EngagementWeight: 0.15, RetentionFactor: 0.8},
	},
	CategoryCreative: {
		MinCorrectAnswers: 2,
		MinTotalAttempts:  3,
		MinAccuracy:       0.6,
		Factors:           AdaptiveFactors{DifficultyAdjustment: 0.8, EngagementWeight: 0.2, RetentionFactor: 0.75},
	},
	CategorySocialStudies: {
		MinCorrectAnswers: 3,
		MinTotalAttempts:  4,
		MinAccuracy:       0.7,
		Factors:           AdaptiveFactors{DifficultyAdjustment: 0.95, EngagementWeight: 0.12, RetentionFactor: 0.8},
	},
	CategoryGeneral: {
		MinCorrectAnswers: 3,
		MinTotalAttempts:  4,
		MinAccuracy:       0.7,
		Factors:           AdaptiveFactors{DifficultyAdjustment: 1.0, EngagementWeight: 0.15, RetentionFactor: 0.8},
	},
}

// PresetFor returns the static criteria for a subject's category.
func PresetFor(subject string) Criteria {
	return presets[CategoryFor(subject)]
}
