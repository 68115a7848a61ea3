package websocket

import "github.com/stemsi/markbook/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError          Event = "error"
	EventPong           Event = "pong"
	EventSubscribed     Event = "subscribed"
	EventMarksSubmitted Event = "marks_submitted"
)

// SubscribedResponse confirms the stream is live and echoes its filter.
type SubscribedResponse struct {
	Event  Event  `json:"event"`
	ExamID string `json:"exam_id,omitempty"`
}

// MarksSubmittedResponse relays one mark sheet submission.
type MarksSubmittedResponse struct {
	Event Event            `json:"event"`
	Data  model.MarksEvent `json:"data"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
