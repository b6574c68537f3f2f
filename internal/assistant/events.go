package assistant

import "time"

// EventType represents the type of progress event
type EventType string

const (
	EventExtracting EventType = "extracting"
	EventExtracted  EventType = "extracted"
	EventRequesting EventType = "requesting"
	EventComplete   EventType = "complete"
	EventError      EventType = "error"
)

// Event reports progress of a long-running assistant call
type Event struct {
	Type      EventType
	Payload   string
	Timestamp time.Time
}

// emit reports an event to the observer, if any
func (s *Service) emit(event Event) {
	if s.observer == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.observer(event)
}

// emitError emits an error event
func (s *Service) emitError(err error) {
	s.emit(Event{Type: EventError, Payload: err.Error()})
}
