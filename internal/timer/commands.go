package timer

import (
	"errors"

	"github.com/miguel-sanchez/PomodoroPal/internal/model"
)

// Actions understood by Dispatch. These strings are the wire contract
// with the popup and the blocked page and must not change.
const (
	ActionGetState   = "GET_STATE"
	ActionStartTimer = "START_TIMER"
	ActionPauseTimer = "PAUSE_TIMER"
	ActionResetTimer = "RESET_TIMER"
	ActionSwitchMode = "SWITCH_MODE"
)

// ErrUnknownAction is the only error the command surface ever
// returns; every domain-level rejection is a silent no-op instead.
var ErrUnknownAction = errors.New("Unknown action")

// Command is one inbound message from a UI surface.
type Command struct {
	Action string `json:"action"`
	Mode   string `json:"mode,omitempty"`
}

// Dispatch executes a command and returns the post-command snapshot.
func (c *Controller) Dispatch(cmd Command) (model.TimerSnapshot, error) {
	switch cmd.Action {
	case ActionGetState:
		return c.Snapshot(), nil
	case ActionStartTimer:
		return c.Start(), nil
	case ActionPauseTimer:
		return c.Pause(), nil
	case ActionResetTimer:
		return c.Reset(), nil
	case ActionSwitchMode:
		return c.SwitchMode(cmd.Mode), nil
	default:
		return model.TimerSnapshot{}, ErrUnknownAction
	}
}
