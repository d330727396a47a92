package monitor

import "entradalert/internal/detect"

// Decision says whether a state change warrants a message and whether that
// message may bypass quiet hours.
type Decision struct {
	Notify bool
	Forced bool
}

// StateMachine turns consecutive observations of one target into
// notification decisions. Transitions are judged at the collapsed
// available/sold_out/unknown granularity so flapping between the two
// available flavors never spams.
type StateMachine struct {
	// NotifyOnDetailChange enables a message when a target stays available
	// but its date list changes (new function added, one sold through).
	NotifyOnDetailChange bool
}

// Evaluate compares the previous state (known=false on the first ever check)
// against the new one.
//
// Becoming available is the event this whole service exists for, so it
// notifies and bypasses quiet hours. Selling out after being available is
// worth a regular message. Everything else, including unknown settling into
// sold_out on startup, stays silent.
func (sm *StateMachine) Evaluate(prev TargetState, known bool, next TargetState) Decision {
	prevStatus := detect.CollapsedUnknown
	if known {
		prevStatus = prev.Status
	}

	switch {
	case next.Status == detect.CollapsedAvailable && prevStatus != detect.CollapsedAvailable:
		return Decision{Notify: true, Forced: true}

	case next.Status == detect.CollapsedSoldOut && prevStatus == detect.CollapsedAvailable:
		return Decision{Notify: true}

	case next.Status == detect.CollapsedAvailable && prevStatus == detect.CollapsedAvailable:
		if sm.NotifyOnDetailChange && known && prev.Detail() != next.Detail() {
			return Decision{Notify: true}
		}
		return Decision{}

	default:
		return Decision{}
	}
}
