package core

// TaskID is a unique task identifier.
type TaskID int

// TaskSet maps cells to task identifiers.
// Iteration follows insertion order so that task selection is reproducible.
type TaskSet struct {
	ids   map[Cell]TaskID
	order []Cell
}

// NewTaskSet creates an empty task set.
func NewTaskSet() *TaskSet {
	return &TaskSet{ids: make(map[Cell]TaskID)}
}

// Add places task id at cell c. It returns false if c already holds a task.
func (s *TaskSet) Add(c Cell, id TaskID) bool {
	if _, exists := s.ids[c]; exists {
		return false
	}
	s.ids[c] = id
	s.order = append(s.order, c)
	return true
}

// Lookup returns the task at c.
func (s *TaskSet) Lookup(c Cell) (TaskID, bool) {
	if s == nil {
		return 0, false
	}
	id, ok := s.ids[c]
	return id, ok
}

// Remove deletes the task at c and returns its id.
func (s *TaskSet) Remove(c Cell) (TaskID, bool) {
	if s == nil {
		return 0, false
	}
	id, ok := s.ids[c]
	if !ok {
		return 0, false
	}
	delete(s.ids, c)
	for i, oc := range s.order {
		if oc == c {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return id, true
}

// Len returns the number of remaining tasks.
func (s *TaskSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Cells returns task cells in insertion order.
func (s *TaskSet) Cells() []Cell {
	if s == nil {
		return nil
	}
	out := make([]Cell, len(s.order))
	copy(out, s.order)
	return out
}

// Entry pairs a task cell with its id.
type Entry struct {
	Cell Cell
	ID   TaskID
}

// Entries returns all tasks in insertion order.
func (s *TaskSet) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, 0, len(s.order))
	for _, c := range s.order {
		out = append(out, Entry{Cell: c, ID: s.ids[c]})
	}
	return out
}

// Clone returns an independent copy.
func (s *TaskSet) Clone() *TaskSet {
	out := NewTaskSet()
	for _, e := range s.Entries() {
		out.Add(e.Cell, e.ID)
	}
	return out
}
