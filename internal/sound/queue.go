package sound

import "sync"

// Event asks the audio player to play a sound once.
type Event struct {
	ID     string
	Volume float32
}

// Queue buffers sound events until the audio side drains them. It is safe
// for concurrent use.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// Emit queues a sound. Empty ids are ignored.
func (q *Queue) Emit(id string, volume float32) {
	if id == "" {
		return
	}
	q.mu.Lock()
	q.events = append(q.events, Event{ID: id, Volume: volume})
	q.mu.Unlock()
}

// Drain returns the queued events in emission order and empties the queue.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of undrained events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
