package dialog

import "stockbot/pkg"

// Interruption is the interrupt classifier's decision for one turn.
// Handled means the turn ends here: no dialog advancement and no intent
// routing happens after an interrupt.
type Interruption struct {
	Handled     bool
	Messages    []string
	ResetDialog bool
	Reprompt    bool
}

// ClassifyInterrupt inspects the top intent for a cancel/help interrupt.
// Interrupts take priority over sub-dialog continuation and over intent
// routing; they are the only path that can abort a turn early.
func ClassifyInterrupt(topIntent string, hasActiveDialog bool, responses Responses) Interruption {
	switch topIntent {
	case pkg.IntentCancel:
		if hasActiveDialog {
			return Interruption{
				Handled:     true,
				Messages:    []string{responses.CancelAck},
				ResetDialog: true,
			}
		}
		return Interruption{
			Handled:  true,
			Messages: []string{responses.CancelNothing},
		}
	case pkg.IntentHelp:
		// Help never cancels: an active sub-dialog is asked to
		// re-prompt so the user can pick up where they left off.
		return Interruption{
			Handled:  true,
			Messages: []string{responses.Help},
			Reprompt: hasActiveDialog,
		}
	default:
		return Interruption{}
	}
}
