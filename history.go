package main

const defaultMaxHistory = 10

type resultState struct {
	result []int
	seed   int
}

// resultHistory keeps the floodfill results of a session so that a
// replaced or canceled result can be brought back.
type resultHistory struct {
	history    []resultState
	maxHistory int
}

func newHistory(n int) *resultHistory {
	h := &resultHistory{}
	h.SetMaxHistory(n)
	return h
}

func (h *resultHistory) MaxHistory() int {
	return h.maxHistory
}

func (h *resultHistory) SetMaxHistory(m int) {
	if m < 0 {
		m = 0
	}
	h.maxHistory = m
	if len(h.history) > m+1 {
		h.history = h.history[len(h.history)-m-1:]
	}
}

func (h *resultHistory) push(s resultState) resultState {
	h.history = append(h.history, s)
	if len(h.history) > h.MaxHistory()+1 {
		h.history = h.history[1:]
	}
	return s
}

func (h *resultHistory) undo() (resultState, bool) {
	if n := len(h.history); n > 1 {
		h.history = h.history[:n-1]
		return h.history[n-2], true
	}
	return resultState{}, false
}

func (h *resultHistory) reset() {
	h.history = nil
}
