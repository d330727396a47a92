package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"entradalert/internal/detect"
)

func TestStateMachineEvaluate(t *testing.T) {
	state := func(status detect.CollapsedStatus, dates ...string) TargetState {
		return TargetState{URL: "https://tickets.example/show", Status: status, Dates: dates}
	}

	tests := []struct {
		name     string
		prev     TargetState
		known    bool
		next     TargetState
		expected Decision
	}{
		{
			name:     "first check lands on available",
			next:     state(detect.CollapsedAvailable, "01/12/2025"),
			expected: Decision{Notify: true, Forced: true},
		},
		{
			name:     "sold out becomes available",
			prev:     state(detect.CollapsedSoldOut),
			known:    true,
			next:     state(detect.CollapsedAvailable),
			expected: Decision{Notify: true, Forced: true},
		},
		{
			name:     "unknown becomes available",
			prev:     state(detect.CollapsedUnknown),
			known:    true,
			next:     state(detect.CollapsedAvailable),
			expected: Decision{Notify: true, Forced: true},
		},
		{
			name:     "available sells out",
			prev:     state(detect.CollapsedAvailable),
			known:    true,
			next:     state(detect.CollapsedSoldOut),
			expected: Decision{Notify: true},
		},
		{
			name:  "unknown settles into sold out silently",
			prev:  state(detect.CollapsedUnknown),
			known: true,
			next:  state(detect.CollapsedSoldOut),
		},
		{
			name: "first check lands on sold out silently",
			next: state(detect.CollapsedSoldOut),
		},
		{
			name:  "available drops to unknown silently",
			prev:  state(detect.CollapsedAvailable),
			known: true,
			next:  state(detect.CollapsedUnknown),
		},
		{
			name:  "stable available with same dates",
			prev:  state(detect.CollapsedAvailable, "01/12/2025"),
			known: true,
			next:  state(detect.CollapsedAvailable, "01/12/2025"),
		},
		{
			name:  "detail change ignored by default",
			prev:  state(detect.CollapsedAvailable, "01/12/2025"),
			known: true,
			next:  state(detect.CollapsedAvailable, "01/12/2025", "15/12/2025"),
		},
	}

	sm := StateMachine{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sm.Evaluate(tt.prev, tt.known, tt.next))
		})
	}
}

func TestStateMachineDetailChangePolicy(t *testing.T) {
	sm := StateMachine{NotifyOnDetailChange: true}

	prev := TargetState{Status: detect.CollapsedAvailable, Dates: []string{"01/12/2025"}}
	next := TargetState{Status: detect.CollapsedAvailable, Dates: []string{"01/12/2025", "15/12/2025"}}

	decision := sm.Evaluate(prev, true, next)
	assert.True(t, decision.Notify)
	assert.False(t, decision.Forced, "detail changes never bypass quiet hours")

	same := sm.Evaluate(prev, true, prev)
	assert.False(t, same.Notify)
}
