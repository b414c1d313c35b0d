package tutor

import (
	"context"
	"fmt"

	"github.com/magedabdelsalam/ustaz-sub000/internal/content"
	"github.com/magedabdelsalam/ustaz-sub000/internal/mastery"
)

// Widget action names accepted by HandleAction.
const (
	ActionStartSession   = "start-session"
	ActionAnswerSubmit   = "answer-submitted"
	ActionRequestContent = "request-content"
	ActionRequestReply   = "request-tutor-response"
	ActionNextLesson     = "next-lesson"
)

// ErrUnknownAction is returned for action names outside the closed set.
type ErrUnknownAction struct {
	Action string
}

func (e *ErrUnknownAction) Error() string {
	return fmt.Sprintf("unknown widget action %q", e.Action)
}

// ActionResult carries whatever a handled action produced. Fields not
// relevant to the action are zero.
type ActionResult struct {
	Content  *content.LessonContent `json:"content,omitempty"`
	Reply    string                 `json:"reply,omitempty"`
	Progress *mastery.Progress      `json:"progress,omitempty"`
	State    mastery.State          `json:"state,omitempty"`
}

// HandleAction is the UI boundary: each interactive widget emits an
// (action, payload) event and receives renderable output back. Payload
// keys are read leniently; missing keys take zero values.
func (s *Service) HandleAction(ctx context.Context, subject, action string, payload map[string]any) (*ActionResult, error) {
	switch action {
	case ActionStartSession:
		if _, err := s.EnsurePlan(ctx, subject); err != nil {
			return nil, err
		}
		return &ActionResult{State: s.State(subject)}, nil

	case ActionAnswerSubmit:
		correct := payloadBool(payload, "correct")
		p := s.SubmitAnswer(subject, correct)
		res := &ActionResult{Progress: &p, State: s.State(subject)}
		if payloadBool(payload, "wantReply") {
			replyAction := "answer-wrong"
			if correct {
				replyAction = "answer-correct"
			}
			reply, err := s.TutorReply(ctx, subject, replyAction, payloadString(payload, "detail"))
			if err != nil {
				return nil, err
			}
			res.Reply = reply
		}
		return res, nil

	case ActionRequestContent:
		kind := content.Kind(payloadString(payload, "kind"))
		if !kind.Valid() {
			kind = content.KindMultipleChoice
		}
		lc, err := s.NextContent(ctx, subject, kind)
		if err != nil {
			return nil, err
		}
		return &ActionResult{Content: &lc}, nil

	case ActionRequestReply:
		reply, err := s.TutorReply(ctx, subject,
			payloadString(payload, "event"), payloadString(payload, "detail"))
		if err != nil {
			return nil, err
		}
		return &ActionResult{Reply: reply}, nil

	case ActionNextLesson:
		if err := s.AdvanceToNextLesson(subject); err != nil {
			return nil, err
		}
		return &ActionResult{State: s.State(subject)}, nil
	}

	return nil, &ErrUnknownAction{Action: action}
}

func payloadString(payload map[string]any, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

func payloadBool(payload map[string]any, key string) bool {
	if v, ok := payload[key].(bool); ok {
		return v
	}
	return false
}
