// Package conversation owns the ordered transcript of one chat session.
package conversation

import (
	"fmt"
	"strings"

	"github.com/spherical-ai/esg-assistant/internal/domain"
)

// State is the transcript of a single session. The first turn is always the
// persona. State is not safe for concurrent use.
type State struct {
	turns []domain.Turn
}

// New starts a transcript containing only the persona turn.
func New(persona string) *State {
	return &State{turns: []domain.Turn{domain.SystemTurn(persona)}}
}

// Restore rebuilds a State from stored turns. A leading system turn is replaced
// by persona so configuration changes apply to existing sessions.
func Restore(persona string, stored []domain.Turn) (*State, error) {
	s := New(persona)
	for i, turn := range stored {
		if turn.Role == domain.RoleSystem {
			if i == 0 {
				continue
			}
			return nil, domain.InvalidInputError(fmt.Sprintf("stored turn %d has unexpected system role", i), nil)
		}
		if !turn.Role.Valid() {
			return nil, domain.InvalidInputError(fmt.Sprintf("stored turn %d has unknown role %q", i, turn.Role), nil)
		}
		s.turns = append(s.turns, turn)
	}
	return s, nil
}

// AppendUser adds a user question. Blank text is rejected and leaves the
// transcript unchanged.
func (s *State) AppendUser(text string) error {
	if strings.TrimSpace(text) == "" {
		return domain.InvalidInputError("question must not be empty", nil)
	}
	s.turns = append(s.turns, domain.UserTurn(text))
	return nil
}

// AppendAssistant adds a model reply.
func (s *State) AppendAssistant(text string) {
	s.turns = append(s.turns, domain.AssistantTurn(text))
}

// Snapshot returns a copy of the full transcript, persona first.
func (s *State) Snapshot() []domain.Turn {
	out := make([]domain.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Turns returns a copy of the turns after the persona.
func (s *State) Turns() []domain.Turn {
	out := make([]domain.Turn, len(s.turns)-1)
	copy(out, s.turns[1:])
	return out
}

// Len returns the number of turns including the persona.
func (s *State) Len() int {
	return len(s.turns)
}

// Persona returns the system prompt text.
func (s *State) Persona() string {
	return s.turns[0].Content
}

// Rewind truncates the transcript back to n turns. The persona is never
// removed and n beyond the current length is a no-op.
func (s *State) Rewind(n int) {
	if n < 1 {
		n = 1
	}
	if n >= len(s.turns) {
		return
	}
	clear(s.turns[n:])
	s.turns = s.turns[:n]
}

// Reset drops every turn except the persona.
func (s *State) Reset() {
	s.Rewind(1)
}
