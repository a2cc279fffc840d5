package models

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// RoundProgress describes where a session stands inside its current round.
type RoundProgress struct {
	CurrentRound        string `json:"current_round"`
	CurrentRoundDisplay string `json:"current_round_display"`
	RoundIndex          int    `json:"round_index"`
	TotalRounds         int    `json:"total_rounds"`
	UserMessages        int    `json:"user_messages"`
	AIMessages          int    `json:"ai_messages"`
	MinMessages         int    `json:"min_messages"`
	MaxMessages         int    `json:"max_messages"`
	Progress            int    `json:"progress"`
	CanTransition       bool   `json:"can_transition"`
}

// StreamEvent is one frame of the SSE turn stream. A stream carries one
// start, zero or more chunks, and exactly one terminal end or error.
type StreamEvent struct {
	Type       string  `json:"type"`
	Content    string  `json:"content,omitempty"`
	MessageID  uint    `json:"message_id,omitempty"`
	Transition bool    `json:"transition,omitempty"`
	NextRound  *string `json:"next_round,omitempty"`
	Message    string  `json:"message,omitempty"`
}

// Stream event types
const (
	EventStart = "start"
	EventChunk = "chunk"
	EventEnd   = "end"
	EventError = "error"
)

// TurnResponse is the non-streaming turn result: the persisted AI message
// plus the transition outcome.
type TurnResponse struct {
	Message    InterviewMessage `json:"message"`
	Transition bool             `json:"transition"`
	NextRound  *string          `json:"next_round,omitempty"`
}

// SessionListResponse is the paginated session listing.
type SessionListResponse struct {
	Items []InterviewSession `json:"items"`
	Total int64              `json:"total"`
	Skip  int                `json:"skip"`
	Limit int                `json:"limit"`
}
