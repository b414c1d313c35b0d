package lessons

import "github.com/magedabdelsalam/ustaz-sub000/internal/llm"

// PlanSchema defines the JSON schema for lesson plan generation.
var PlanSchema = &llm.Schema{
	Name:        "lesson-plan",
	Description: "An ordered lesson plan for one subject",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subject": map[string]any{
				"type":        "string",
				"description": "The subject this plan covers",
			},
			"lessons": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title": map[string]any{
							"type":        "string",
							"description": "Short lesson title (3-8 words)",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "One-sentence description of what the lesson teaches",
						},
						"concepts": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"name": map[string]any{
										"type": "string",
									},
									"description": map[string]any{
										"type": "string",
									},
									"difficulty": map[string]any{
										"type": "string",
										"enum": []any{"beginner", "intermediate", "advanced"},
									},
									"estimatedPracticeItems": map[string]any{
										"type":        "integer",
										"description": "How many practice items this concept needs (2-6)",
									},
								},
								"required":             []any{"name", "description", "difficulty", "estimatedPracticeItems"},
								"additionalProperties": false,
							},
						},
					},
					"required":             []any{"title", "description", "concepts"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"subject", "lessons"},
		"additionalProperties": false,
	},
}

// ContentSchema defines the JSON schema for a single piece of lesson
// content. The data payload is kind-specific, so it is left open here
// and checked structurally per kind after repair.
var ContentSchema = &llm.Schema{
	Name:        "lesson-content",
	Description: "One renderable content item for an interactive learning widget",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type": "string",
				"enum": []any{"multiple-choice", "fill-blank", "drag-drop", "step-solver", "concept-card", "explainer"},
			},
			"data": map[string]any{
				"type":        "object",
				"description": "Kind-specific payload the widget renders",
			},
		},
		"required":             []any{"type", "data"},
		"additionalProperties": false,
	},
}

// CriteriaSchema defines the JSON schema for readiness criteria
// generation.
var CriteriaSchema = &llm.Schema{
	Name:        "progress-criteria",
	Description: "Adaptive readiness thresholds for one subject",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"minCorrectAnswers": map[string]any{
				"type":        "integer",
				"description": "Minimum correct answers before advancement",
			},
			"minTotalAttempts": map[string]any{
				"type":        "integer",
				"description": "Minimum total attempts before advancement",
			},
			"minAccuracy": map[string]any{
				"type":        "number",
				"description": "Minimum accuracy in [0,1]",
			},
			"adaptiveFactors": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"difficultyAdjustment": map[string]any{"type": "number"},
					"engagementWeight":     map[string]any{"type": "number"},
					"retentionFactor":      map[string]any{"type": "number"},
				},
				"required":             []any{"difficultyAdjustment", "engagementWeight", "retentionFactor"},
				"additionalProperties": false,
			},
		},
		"required":             []any{"minCorrectAnswers", "minTotalAttempts", "minAccuracy", "adaptiveFactors"},
		"additionalProperties": false,
	},
}

// ReplySchema defines the JSON schema for tutor reply generation.
var ReplySchema = &llm.Schema{
	Name:        "tutor-reply",
	Description: "A short, encouraging tutor reply to a learner action",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "The reply shown to the learner (1-3 sentences)",
			},
		},
		"required":             []any{"text"},
		"additionalProperties": false,
	},
}
