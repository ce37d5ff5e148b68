package entity

const MaxParticipants = 2

// Session is one room: a board shared by up to two connections.
type Session struct {
	ID           string   `json:"id"`
	Board        Board    `json:"board"`
	Participants []string `json:"participants"`
	Turn         Mark     `json:"turn"`
}

func NewSession(id, creatorID string) *Session {
	return &Session{
		ID:           id,
		Participants: []string{creatorID},
		Turn:         PlayerX,
	}
}

func (that *Session) HasParticipant(connectionID string) bool {
	return that.slotOf(connectionID) >= 0
}

func (that *Session) IsOpen() bool {
	return len(that.Participants) == 1
}

func (that *Session) IsFull() bool {
	return len(that.Participants) == MaxParticipants
}

func (that *Session) AddParticipant(connectionID string) {
	that.Participants = append(that.Participants, connectionID)
}

// RemoveParticipant drops every occurrence of connectionID and reports whether any was found.
func (that *Session) RemoveParticipant(connectionID string) bool {
	kept := make([]string, 0, len(that.Participants))
	for _, id := range that.Participants {
		if id != connectionID {
			kept = append(kept, id)
		}
	}

	removed := len(kept) != len(that.Participants)
	that.Participants = kept

	return removed
}

// MarkForSlot maps a participant count onto a mark: one participant plays X, anything else O.
func MarkForSlot(count int) Mark {
	if count == 1 {
		return PlayerX
	}
	return PlayerO
}

// SlotMark is the mark owned by connectionID's position in the participant list.
func (that *Session) SlotMark(connectionID string) Mark {
	slot := that.slotOf(connectionID)
	if slot < 0 {
		return EmptyCell
	}

	return MarkForSlot(slot + 1)
}

// Reset clears the board and hands the turn back to X.
func (that *Session) Reset() {
	that.Board.Reset()
	that.Turn = PlayerX
}

func (that *Session) slotOf(connectionID string) int {
	for i, id := range that.Participants {
		if id == connectionID {
			return i
		}
	}
	return -1
}
