// Package clientstate models the client's view core independently of any
// rendering concern: the view state machine, conversation reconciliation
// against the socket stream, and the decorative CAPTCHA challenge.
package clientstate

import (
	"errors"
	"fmt"
)

// View is a named client screen.
type View string

const (
	ViewLanding    View = "landing"
	ViewLogin      View = "login"
	ViewVerify     View = "verify"
	ViewBrowse     View = "browse"
	ViewPost       View = "post"
	ViewMyStuff    View = "my-stuff"
	ViewRestricted View = "restricted"
)

// Event is a named transition trigger.
type Event string

const (
	EventStart       Event = "start"        // landing -> login
	EventSubmitLogin Event = "submit_login" // login -> verify
	EventBrowse      Event = "browse"
	EventPost        Event = "post"
	EventMyStuff     Event = "my_stuff"
	EventHome        Event = "home"
	EventBanned      Event = "banned" // absorbing
)

// verificationSteps is the number of wizard steps before browsing unlocks.
const verificationSteps = 3

var transitions = map[View]map[Event]View{
	ViewLanding: {
		EventStart: ViewLogin,
	},
	ViewLogin: {
		EventSubmitLogin: ViewVerify,
		EventHome:        ViewLanding,
	},
	ViewBrowse: {
		EventPost:    ViewPost,
		EventMyStuff: ViewMyStuff,
		EventHome:    ViewLanding,
	},
	ViewPost: {
		EventBrowse:  ViewBrowse,
		EventMyStuff: ViewMyStuff,
		EventHome:    ViewLanding,
	},
	ViewMyStuff: {
		EventBrowse: ViewBrowse,
		EventPost:   ViewPost,
		EventHome:   ViewLanding,
	},
}

// ErrInvalidTransition is returned when an event is not legal in the
// current view.
var ErrInvalidTransition = errors.New("invalid transition")

// Machine is the explicit client view state machine. A banned account lands
// in the restricted view, which is absorbing: no event leaves it.
type Machine struct {
	view View
	step int
}

// NewMachine starts on the landing view.
func NewMachine() *Machine {
	return &Machine{view: ViewLanding}
}

// View returns the current view.
func (m *Machine) View() View {
	return m.view
}

// VerificationStep returns the current wizard step (1-based) while on the
// verify view, 0 otherwise.
func (m *Machine) VerificationStep() int {
	if m.view != ViewVerify {
		return 0
	}
	return m.step
}

// Fire applies an event according to the transition table.
func (m *Machine) Fire(ev Event) error {
	if ev == EventBanned {
		m.view = ViewRestricted
		m.step = 0
		return nil
	}
	if m.view == ViewRestricted {
		return fmt.Errorf("%w: %s is absorbing", ErrInvalidTransition, ViewRestricted)
	}
	next, ok := transitions[m.view][ev]
	if !ok {
		return fmt.Errorf("%w: %s in view %s", ErrInvalidTransition, ev, m.view)
	}
	m.view = next
	if next == ViewVerify {
		m.step = 1
	} else {
		m.step = 0
	}
	return nil
}

// AdvanceVerification completes the current wizard step. Finishing the last
// step moves the machine to the browse view.
func (m *Machine) AdvanceVerification() error {
	if m.view != ViewVerify {
		return fmt.Errorf("%w: not verifying in view %s", ErrInvalidTransition, m.view)
	}
	if m.step < verificationSteps {
		m.step++
		return nil
	}
	m.view = ViewBrowse
	m.step = 0
	return nil
}
