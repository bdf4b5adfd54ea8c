package command

// Queue is the append-only, ordered log of commands issued during a session.
// Repeats are kept; nothing is validated or reordered.
type Queue struct {
	commands []Command
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Add appends cmd to the end of the log.
func (q *Queue) Add(cmd Command) {
	q.commands = append(q.commands, cmd)
}

// Commands returns a snapshot of the log in insertion order.
//
// Postcondition: Mutating the returned slice does not affect the Queue.
func (q *Queue) Commands() []Command {
	out := make([]Command, len(q.commands))
	copy(out, q.commands)
	return out
}

// RawInputs returns the FullTextCommand of every logged command in order.
func (q *Queue) RawInputs() []string {
	out := make([]string, len(q.commands))
	for i, c := range q.commands {
		out[i] = c.FullTextCommand
	}
	return out
}

// Len returns the number of logged commands.
func (q *Queue) Len() int {
	return len(q.commands)
}

// Clear empties the log.
func (q *Queue) Clear() {
	q.commands = nil
}
