package monitor

import (
	"strings"
	"sync"
	"time"

	"entradalert/internal/detect"
)

// TargetState is the last known availability of one monitored URL.
type TargetState struct {
	URL           string
	Status        detect.CollapsedStatus
	RawStatus     detect.AvailabilityStatus
	Dates         []string
	Title         string
	LastCheckedAt time.Time
	LastError     string
}

// Detail is the comparable form of the state's dates, used to spot
// detail-only changes between two available states.
func (s TargetState) Detail() string {
	return strings.Join(s.Dates, ", ")
}

// StateStore is the in-memory view of all targets, shared between the
// monitor loop (writer) and the bot commands (readers). Order follows the
// configured target list so command indices stay stable.
type StateStore struct {
	mu     sync.RWMutex
	order  []string
	states map[string]TargetState
}

// NewStateStore creates a store tracking the given targets in order.
func NewStateStore(targetURLs []string) *StateStore {
	order := make([]string, len(targetURLs))
	copy(order, targetURLs)
	return &StateStore{
		order:  order,
		states: make(map[string]TargetState, len(targetURLs)),
	}
}

// Get returns the state for a URL and whether the target has been checked yet.
func (st *StateStore) Get(url string) (TargetState, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	state, ok := st.states[url]
	return state, ok
}

// GetByIndex returns the state at a 1-based position in the configured order.
func (st *StateStore) GetByIndex(index int) (TargetState, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	if index < 1 || index > len(st.order) {
		return TargetState{}, false
	}
	url := st.order[index-1]
	state, ok := st.states[url]
	if !ok {
		state = TargetState{URL: url, Status: detect.CollapsedUnknown, RawStatus: detect.StatusUnknown}
	}
	return state, true
}

// Put records the latest state for a URL.
func (st *StateStore) Put(state TargetState) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.states[state.URL] = state
}

// Snapshot returns all targets in configured order. Targets not yet checked
// appear as unknown.
func (st *StateStore) Snapshot() []TargetState {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]TargetState, 0, len(st.order))
	for _, url := range st.order {
		state, ok := st.states[url]
		if !ok {
			state = TargetState{URL: url, Status: detect.CollapsedUnknown, RawStatus: detect.StatusUnknown}
		}
		out = append(out, state)
	}
	return out
}

// Targets returns the configured URLs in order.
func (st *StateStore) Targets() []string {
	out := make([]string, len(st.order))
	copy(out, st.order)
	return out
}
