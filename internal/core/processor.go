package core

import (
	"context"
	"fmt"
	"time"

	"stockbot/internal/dialog"
	"stockbot/internal/logger"
	"stockbot/internal/nlu"
	"stockbot/internal/storage"
	"stockbot/pkg"

	"github.com/cloudwego/eino/schema"
)

// TurnProcessor runs one complete turn: the recognizer call (the single
// suspension point), the dialog decision, and exactly one state flush.
// Turns for the same conversation are processed strictly in sequence;
// the processor holds no cross-turn state of its own.
type TurnProcessor struct {
	recognizer nlu.Recognizer
	dispatcher *dialog.Dispatcher
	runtime    *dialog.Runtime
	store      storage.Store
}

// NewTurnProcessor wires the processor.
func NewTurnProcessor(recognizer nlu.Recognizer, dispatcher *dialog.Dispatcher, runtime *dialog.Runtime, store storage.Store) *TurnProcessor {
	return &TurnProcessor{
		recognizer: recognizer,
		dispatcher: dispatcher,
		runtime:    runtime,
		store:      store,
	}
}

// ProcessTurn maps one inbound activity to its ordered outbound actions.
// A recognizer contract violation aborts the turn before any state
// mutation; otherwise state is persisted once, on every exit path.
func (p *TurnProcessor) ProcessTurn(ctx context.Context, activity pkg.Activity) ([]pkg.OutboundAction, error) {
	start := time.Now()

	var recognition *pkg.RecognitionResult
	if activity.Kind == pkg.ActivityMessage {
		result, err := p.recognizer.Recognize(ctx, activity.Text)
		if err != nil {
			return nil, fmt.Errorf("turn aborted: %w", err)
		}
		recognition = result
	}

	dialogState, err := p.store.GetDialogState(ctx, activity.ConversationID)
	if err != nil {
		return nil, err
	}
	greeting, err := p.store.GetGreeting(ctx, activity.UserID)
	if err != nil {
		return nil, err
	}

	hasActiveDialog := dialogState.HasActiveDialog()

	// Advance the active sub-dialog unless the turn is an interrupt;
	// interrupts are classified before any dialog advancement.
	var runtimeResult dialog.RuntimeResult
	if recognition != nil && !dialog.IsInterrupt(recognition.TopIntent) {
		runtimeResult = p.runtime.Continue(dialogState, activity.Text, &greeting)
	}

	turnResult, err := p.dispatcher.HandleTurn(dialog.TurnInput{
		Activity:        activity,
		Recognition:     recognition,
		DialogStatus:    dialogState.Status,
		HasActiveDialog: hasActiveDialog,
		DialogResponded: runtimeResult.Responded,
		Greeting:        greeting,
	})
	if err != nil {
		return nil, err
	}

	actions := append(runtimeResult.Actions, turnResult.Actions...)
	actions = append(actions, p.runtime.Apply(turnResult.Command, dialogState)...)

	if err := p.flush(ctx, activity, turnResult.Greeting, dialogState, actions); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("conversation", activity.ConversationID).
		Int("actions", len(actions)).
		Dur("took", time.Since(start)).
		Msg("turn processed")

	return actions, nil
}

// flush persists conversation-scoped and user-scoped state exactly once
// at the end of the turn. Persistence failures propagate to the caller;
// the core makes no partial-persistence guarantees.
func (p *TurnProcessor) flush(ctx context.Context, activity pkg.Activity, greeting pkg.GreetingState, dialogState *pkg.DialogState, actions []pkg.OutboundAction) error {
	if err := p.store.SaveGreeting(ctx, activity.UserID, greeting); err != nil {
		return err
	}
	if err := p.store.SaveDialogState(ctx, dialogState); err != nil {
		return err
	}

	var messages []*schema.Message
	if activity.Kind == pkg.ActivityMessage && activity.Text != "" {
		messages = append(messages, schema.UserMessage(activity.Text))
	}
	for _, action := range actions {
		if action.Kind == pkg.ActionMessage {
			messages = append(messages, schema.AssistantMessage(action.Text, nil))
		}
	}
	if len(messages) == 0 {
		return nil
	}
	return p.store.AppendTranscript(ctx, activity.ConversationID, messages...)
}
