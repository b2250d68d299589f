package queue

import "github.com/Cyber-shmuck/Dutch/internal/domain"

// Queue is a study queue and the position of the word currently shown.
// It is a value: Advance and Reset return a new Queue.
type Queue struct {
	Items  []domain.Word `json:"items"`
	Cursor int           `json:"cursor"`
}

// New starts a queue at its first item.
func New(items []domain.Word) Queue {
	return Queue{Items: items}
}

// Current returns the word at the cursor. ok is false once the queue is done.
func (q Queue) Current() (w domain.Word, ok bool) {
	if q.Cursor < 0 || q.Cursor >= len(q.Items) {
		return domain.Word{}, false
	}
	return q.Items[q.Cursor], true
}

// Done reports whether the session is complete.
func (q Queue) Done() bool {
	return q.Cursor >= len(q.Items)
}

// Remaining is the number of words not yet shown, including the current one.
func (q Queue) Remaining() int {
	if q.Done() {
		return 0
	}
	return len(q.Items) - q.Cursor
}

// Advance moves past the current word. A finished queue stays finished.
func Advance(q Queue) Queue {
	if !q.Done() {
		q.Cursor++
	}
	return q
}

// Reset moves the cursor back to the first word.
func Reset(q Queue) Queue {
	q.Cursor = 0
	return q
}
