package stepper

import "sync"

// History manages the undo/redo stacks of modification batches. A batch is
// the ordered list of modifications produced by a single iteration and is
// the atomic unit of undo/redo.
//
// The execution model is single-threaded; the mutex exists so the stacks
// stay coherent when inspected from tests or observers.
type History struct {
	mu sync.Mutex

	past   [][]Modification
	future [][]Modification

	maxEntries int
}

// NewHistory creates a history limited to maxEntries batches. A
// non-positive limit selects the default of 1000.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &History{maxEntries: maxEntries}
}

// Push records a batch and clears the future stack: a new action
// invalidates any pending redo.
func (h *History) Push(batch []Modification) {
	if len(batch) == 0 {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.past = append(h.past, batch)
	h.future = nil

	if len(h.past) > h.maxEntries {
		excess := len(h.past) - h.maxEntries
		h.past = h.past[excess:]
	}
}

// Undo pops the most recent batch, unapplies its modifications in reverse
// order and pushes the batch onto the future stack. On failure the batch is
// restored and the state may be partially unwound; the error reports which
// modification refused.
func (h *History) Undo(st State) ([]Modification, error) {
	h.mu.Lock()
	if len(h.past) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	batch := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.mu.Unlock()

	for i := len(batch) - 1; i >= 0; i-- {
		if err := batch[i].Unapply(st); err != nil {
			h.mu.Lock()
			h.past = append(h.past, batch)
			h.mu.Unlock()
			return nil, err
		}
	}

	h.mu.Lock()
	h.future = append(h.future, batch)
	h.mu.Unlock()
	return batch, nil
}

// Redo pops the most recent future batch, applies its modifications in
// original order and pushes the batch back onto the history stack.
func (h *History) Redo(st State) ([]Modification, error) {
	h.mu.Lock()
	if len(h.future) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	batch := h.future[len(h.future)-1]
	h.future = h.future[:len(h.future)-1]
	h.mu.Unlock()

	for _, mod := range batch {
		if err := mod.Apply(st); err != nil {
			h.mu.Lock()
			h.future = append(h.future, batch)
			h.mu.Unlock()
			return nil, err
		}
	}

	h.mu.Lock()
	h.past = append(h.past, batch)
	h.mu.Unlock()
	return batch, nil
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past) > 0
}

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future) > 0
}

// UndoCount returns the number of undoable batches.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.past)
}

// RedoCount returns the number of redoable batches.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.future)
}

// Clear drops all recorded batches.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.past = nil
	h.future = nil
}
