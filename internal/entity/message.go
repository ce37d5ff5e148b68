package entity

// Inbound actions.
const (
	ActionCreateSession = "room:create"
	ActionJoinSession   = "room:join"
	ActionMakeMove      = "game:move"
	ActionResetSession  = "game:reset"
	ActionDisconnected  = "disconnect"
)

// Outbound actions.
const (
	ActionSessionCreated = "room:created"
	ActionAssignedMark   = "player"
	ActionMatchStarted   = "game:start"
	ActionStatus         = "status"
	ActionMoveApplied    = "game:move"
	ActionGameWon        = "game:win"
	ActionGameDrawn      = "game:draw"
	ActionBoardReset     = "game:reset"
)

type Payload struct {
	SessionID string `json:"session_id,omitempty"`
	Mark      Mark   `json:"mark,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Event is an outbound message addressed to a single connection.
type Event struct {
	Action  string   `json:"action"`
	Payload *Payload `json:"payload,omitempty"`
}

// Inbound is a decoded client message tagged with the connection it came from.
type Inbound struct {
	ConnectionID string
	Action       string
	Payload      Payload
}

func NewSessionCreated(sessionID string) *Event {
	return &Event{Action: ActionSessionCreated, Payload: &Payload{SessionID: sessionID}}
}

func NewAssignedMark(mark Mark) *Event {
	return &Event{Action: ActionAssignedMark, Payload: &Payload{Mark: mark}}
}

func NewMatchStarted() *Event {
	return &Event{Action: ActionMatchStarted}
}

func NewStatusNotice(message string) *Event {
	return &Event{Action: ActionStatus, Payload: &Payload{Message: message}}
}

func NewMoveApplied(cell int, mark Mark) *Event {
	return &Event{Action: ActionMoveApplied, Payload: &Payload{Cell: &cell, Mark: mark}}
}

func NewGameWon(mark Mark) *Event {
	return &Event{Action: ActionGameWon, Payload: &Payload{Mark: mark}}
}

func NewGameDrawn() *Event {
	return &Event{Action: ActionGameDrawn}
}

func NewBoardReset() *Event {
	return &Event{Action: ActionBoardReset}
}
