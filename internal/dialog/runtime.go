package dialog

import (
	"fmt"
	"strings"

	"stockbot/pkg"
)

// Greeting dialog steps
const (
	stepAskName = "askName"
	stepAskCity = "askCity"
)

// RuntimeResult is the outcome of advancing the active sub-dialog.
type RuntimeResult struct {
	// Responded is set when the sub-dialog produced output this turn;
	// its prompt then takes precedence over intent routing.
	Responded bool
	Actions   []pkg.OutboundAction
}

// Runtime advances sub-dialogs and applies dispatcher commands to the
// dialog state. The only built-in sub-dialog is the greeting flow
// (name, then city); dialog state moves through waiting until the last
// answer, which marks it complete.
type Runtime struct {
	responses Responses
}

// NewRuntime creates a dialog runtime with the given templates.
func NewRuntime(responses Responses) *Runtime {
	return &Runtime{responses: responses.merge()}
}

// IsInterrupt reports whether the intent must be classified before any
// dialog advancement. Interrupt turns never reach Continue.
func IsInterrupt(topIntent string) bool {
	return topIntent == pkg.IntentCancel || topIntent == pkg.IntentHelp
}

// Continue advances the active sub-dialog with the user's utterance.
// With no active dialog it does nothing and leaves the status empty.
func (r *Runtime) Continue(state *pkg.DialogState, utterance string, greeting *pkg.GreetingState) RuntimeResult {
	if state.ActiveDialog != GreetingDialogID {
		state.Status = pkg.DialogStatusEmpty
		return RuntimeResult{}
	}
	if state.Status == pkg.DialogStatusComplete {
		// A completed dialog is not advanced again; the dispatcher
		// ends it via the status branch.
		return RuntimeResult{}
	}

	answer := strings.TrimSpace(utterance)
	switch state.Step {
	case stepAskName:
		greeting.Name = answer
		state.Step = stepAskCity
		state.Status = pkg.DialogStatusWaiting
		return RuntimeResult{
			Responded: true,
			Actions:   []pkg.OutboundAction{newMessageAction(r.responses.AskCity)},
		}
	case stepAskCity:
		greeting.City = answer
		state.Status = pkg.DialogStatusComplete
		ack := fmt.Sprintf(r.responses.GreetAck, greeting.City, greeting.Name)
		return RuntimeResult{
			Responded: true,
			Actions:   []pkg.OutboundAction{newMessageAction(ack)},
		}
	default:
		// Unknown step is an unreachable state; report it as such so
		// the dispatcher resets everything.
		state.Status = pkg.DialogStatusOther
		return RuntimeResult{}
	}
}

// Apply executes the dispatcher's command against the dialog state and
// returns any prompts the command produces.
func (r *Runtime) Apply(command DialogCommand, state *pkg.DialogState) []pkg.OutboundAction {
	switch command {
	case CommandBeginGreeting:
		state.ActiveDialog = GreetingDialogID
		state.Step = stepAskName
		state.Status = pkg.DialogStatusWaiting
		return []pkg.OutboundAction{newMessageAction(r.responses.AskName)}

	case CommandEndDialog, CommandCancelAll:
		state.ActiveDialog = ""
		state.Step = ""
		state.Status = pkg.DialogStatusEmpty
		return nil

	case CommandReprompt:
		if state.ActiveDialog != GreetingDialogID {
			return nil
		}
		prompt := r.responses.AskName
		if state.Step == stepAskCity {
			prompt = r.responses.AskCity
		}
		return []pkg.OutboundAction{newMessageAction(prompt)}

	default:
		return nil
	}
}
