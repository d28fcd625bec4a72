package dialog

import (
	"fmt"

	"stockbot/internal/logger"
	"stockbot/internal/nlu"
	"stockbot/pkg"

	"github.com/google/uuid"
)

// DialogCommand tells the dialog runtime what to do with the active
// sub-dialog after this turn.
type DialogCommand int

const (
	CommandNone DialogCommand = iota
	CommandBeginGreeting
	CommandEndDialog
	CommandCancelAll
	CommandReprompt
)

// GreetingDialogID names the greeting sub-dialog in the dialog state.
const GreetingDialogID = "greeting"

// TurnInput carries everything the dispatcher needs to decide one turn.
// Recognition may be nil only for system activities.
type TurnInput struct {
	Activity        pkg.Activity
	Recognition     *pkg.RecognitionResult
	DialogStatus    pkg.DialogTurnStatus
	HasActiveDialog bool
	// DialogResponded is set when the active sub-dialog already
	// produced a response this turn. Its prompt takes precedence:
	// intent routing must never override it.
	DialogResponded bool
	Greeting        pkg.GreetingState
}

// TurnResult is the dispatcher's decision: the ordered outbound actions,
// the command for the dialog runtime, and the (possibly updated)
// greeting state to persist.
type TurnResult struct {
	Actions  []pkg.OutboundAction
	Command  DialogCommand
	Greeting pkg.GreetingState
}

// Dispatcher is the turn dispatch state machine. It is deterministic:
// one turn's inputs map to exactly one set of outputs, and it performs
// no I/O itself — persistence happens in the turn processor.
type Dispatcher struct {
	bot        pkg.BotConfig
	normalizer *nlu.Normalizer
	composer   *Composer
	responses  Responses
}

// NewDispatcher wires the dispatcher with its leaf components.
func NewDispatcher(bot pkg.BotConfig, normalizer *nlu.Normalizer, composer *Composer, responses Responses) *Dispatcher {
	return &Dispatcher{
		bot:        bot,
		normalizer: normalizer,
		composer:   composer,
		responses:  responses.merge(),
	}
}

// HandleTurn decides one turn. A missing top intent on a message
// activity is a fatal input-contract violation: the turn is rejected
// before any state mutation rather than proceeding with a guess.
func (d *Dispatcher) HandleTurn(in TurnInput) (*TurnResult, error) {
	result := &TurnResult{Greeting: in.Greeting}

	if in.Activity.Kind == pkg.ActivityMembersAdded {
		d.welcomeMembers(in.Activity, result)
		return result, nil
	}

	if err := nlu.ValidateResult(in.Recognition); err != nil {
		return nil, fmt.Errorf("turn rejected: %w", err)
	}
	topIntent := in.Recognition.TopIntent

	// Greeting slots are a side channel: they are extracted on every
	// turn regardless of intent, last writer wins.
	if d.normalizer.ApplyGreeting(in.Recognition, &result.Greeting) {
		logger.Debug().
			Str("conversation", in.Activity.ConversationID).
			Msg("greeting state updated")
	}

	interrupt := ClassifyInterrupt(topIntent, in.HasActiveDialog, d.responses)
	if interrupt.Handled {
		for _, msg := range interrupt.Messages {
			result.Actions = append(result.Actions, newMessageAction(msg))
		}
		switch {
		case interrupt.ResetDialog:
			result.Command = CommandCancelAll
		case interrupt.Reprompt:
			result.Command = CommandReprompt
		}
		return result, nil
	}

	// A sub-dialog that already answered this turn owns the turn.
	if in.DialogResponded {
		return result, nil
	}

	switch in.DialogStatus {
	case pkg.DialogStatusEmpty:
		d.routeIntent(topIntent, in.Recognition, result)
	case pkg.DialogStatusWaiting:
		// Sub-dialog is mid-prompt; nothing to add.
	case pkg.DialogStatusComplete:
		result.Command = CommandEndDialog
	default:
		// Unreachable dialog state: recover locally with a full
		// reset, never surface it to the user as an error.
		logger.Warn().
			Str("status", string(in.DialogStatus)).
			Msg("unrecognized dialog status, cancelling active dialogs")
		result.Command = CommandCancelAll
	}

	return result, nil
}

// welcomeMembers emits one welcome card per newly joined participant,
// skipping the bot's own identity.
func (d *Dispatcher) welcomeMembers(activity pkg.Activity, result *TurnResult) {
	for _, member := range activity.MembersAdded {
		if member == d.bot.ID {
			continue
		}
		card := d.composer.WelcomeCard()
		result.Actions = append(result.Actions, newCardAction(card))
	}
}

// routeIntent is the status==empty branch of the state machine.
func (d *Dispatcher) routeIntent(topIntent string, recognition *pkg.RecognitionResult, result *TurnResult) {
	switch topIntent {
	case pkg.IntentGreeting:
		result.Command = CommandBeginGreeting

	case pkg.IntentBuy:
		d.routeOrder(SideBuy, recognition, result)

	case pkg.IntentSell:
		d.routeOrder(SideSell, recognition, result)

	case pkg.IntentBalance:
		descriptor := d.normalizer.Normalize(recognition)
		result.Actions = append(result.Actions,
			newMessageAction(d.responses.Balance),
			newEventAction(pkg.EventBalanceIntent, descriptor.Serialize()),
		)

	default:
		result.Actions = append(result.Actions, newMessageAction(d.responses.NotUnderstood))
	}
}

// routeOrder normalizes the order entities and either emits the
// confirmation composition plus the trade-intent event, or a prompt for
// the missing fields. No partial order is ever emitted downstream.
func (d *Dispatcher) routeOrder(side TradeSide, recognition *pkg.RecognitionResult, result *TurnResult) {
	descriptor := d.normalizer.Normalize(recognition)
	if !descriptor.Complete() {
		result.Actions = append(result.Actions, newMessageAction(d.responses.OrderPrompt))
		return
	}

	text, card := d.composer.Compose(side, descriptor)
	result.Actions = append(result.Actions,
		newMessageAction(text),
		newCardAction(card),
		newEventAction(side.EventName(), descriptor.Serialize()),
	)
}

func newMessageAction(text string) pkg.OutboundAction {
	return pkg.OutboundAction{
		ID:   uuid.NewString(),
		Kind: pkg.ActionMessage,
		Text: text,
	}
}

func newCardAction(card pkg.Card) pkg.OutboundAction {
	return pkg.OutboundAction{
		ID:   uuid.NewString(),
		Kind: pkg.ActionCard,
		Card: &card,
	}
}

func newEventAction(name, value string) pkg.OutboundAction {
	return pkg.OutboundAction{
		ID:    uuid.NewString(),
		Kind:  pkg.ActionEvent,
		Event: name,
		Value: value,
	}
}
