package dialog

import (
	"testing"

	"stockbot/internal/nlu"
	"stockbot/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher() *Dispatcher {
	responses := DefaultResponses()
	return NewDispatcher(
		pkg.BotConfig{ID: "stockbot", Name: "주식벗"},
		nlu.NewNormalizer(nlu.DefaultAliases()),
		NewComposer(responses),
		responses,
	)
}

func messageTurn(topIntent string, entityPairs map[string][]string) TurnInput {
	entities := make(map[string][]pkg.EntityCandidate, len(entityPairs))
	for key, texts := range entityPairs {
		for _, text := range texts {
			entities[key] = append(entities[key], pkg.EntityCandidate{Text: text, Score: 0.9, Type: key})
		}
	}
	return TurnInput{
		Activity: pkg.Activity{
			Kind:           pkg.ActivityMessage,
			ConversationID: "conv-1",
			UserID:         "user-1",
			Text:           "입력",
		},
		Recognition:  &pkg.RecognitionResult{TopIntent: topIntent, Entities: entities},
		DialogStatus: pkg.DialogStatusEmpty,
	}
}

func actionKinds(actions []pkg.OutboundAction) []pkg.ActionKind {
	kinds := make([]pkg.ActionKind, 0, len(actions))
	for _, action := range actions {
		kinds = append(kinds, action.Kind)
	}
	return kinds
}

func findEvent(actions []pkg.OutboundAction) *pkg.OutboundAction {
	for i := range actions {
		if actions[i].Kind == pkg.ActionEvent {
			return &actions[i]
		}
	}
	return nil
}

func TestHandleTurn_BuyComplete(t *testing.T) {
	dispatcher := newTestDispatcher()

	result, err := dispatcher.HandleTurn(messageTurn(pkg.IntentBuy, map[string][]string{
		"수량": {"1주"},
		"종목": {"신한 지주"},
		"단가": {"현재가"},
	}))
	require.NoError(t, err)

	// Confirmation message, card, and the buy-intent event, in order.
	assert.Equal(t, []pkg.ActionKind{pkg.ActionMessage, pkg.ActionCard, pkg.ActionEvent}, actionKinds(result.Actions))
	assert.Equal(t, "신한지주 1주 cp 매수하시겠습니까?", result.Actions[0].Text)

	event := findEvent(result.Actions)
	require.NotNil(t, event)
	assert.Equal(t, pkg.EventBuyIntent, event.Event)
	assert.Equal(t, "1|SEP|신한지주|SEP|cp", event.Value)
	assert.Equal(t, CommandNone, result.Command)

	for _, action := range result.Actions {
		assert.NotEmpty(t, action.ID)
	}
}

func TestHandleTurn_SellComplete(t *testing.T) {
	dispatcher := newTestDispatcher()

	result, err := dispatcher.HandleTurn(messageTurn(pkg.IntentSell, map[string][]string{
		"수량": {"10주"},
		"종목": {"카카오"},
		"단가": {"50000원"},
	}))
	require.NoError(t, err)

	event := findEvent(result.Actions)
	require.NotNil(t, event)
	assert.Equal(t, pkg.EventSellIntent, event.Event)
	assert.Equal(t, "10|SEP|카카오|SEP|50000", event.Value)
}

func TestHandleTurn_IncompleteOrderPrompts(t *testing.T) {
	dispatcher := newTestDispatcher()

	// 단가 missing entirely: prompt, and no trade event fires.
	result, err := dispatcher.HandleTurn(messageTurn(pkg.IntentBuy, map[string][]string{
		"수량": {"1주"},
		"종목": {"신한 지주"},
	}))
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, pkg.ActionMessage, result.Actions[0].Kind)
	assert.Equal(t, DefaultResponses().OrderPrompt, result.Actions[0].Text)
	assert.Nil(t, findEvent(result.Actions))
}

func TestHandleTurn_GreetingStartsSubDialog(t *testing.T) {
	dispatcher := newTestDispatcher()

	result, err := dispatcher.HandleTurn(messageTurn(pkg.IntentGreeting, nil))
	require.NoError(t, err)
	assert.Equal(t, CommandBeginGreeting, result.Command)
	assert.Empty(t, result.Actions)
}

func TestHandleTurn_Balance(t *testing.T) {
	dispatcher := newTestDispatcher()

	result, err := dispatcher.HandleTurn(messageTurn(pkg.IntentBalance, nil))
	require.NoError(t, err)

	event := findEvent(result.Actions)
	require.NotNil(t, event)
	assert.Equal(t, pkg.EventBalanceIntent, event.Event)
	assert.Equal(t, "|SEP||SEP|", event.Value)
}

func TestHandleTurn_UnrecognizedIntent(t *testing.T) {
	dispatcher := newTestDispatcher()

	result, err := dispatcher.HandleTurn(messageTurn(pkg.IntentNone, nil))
	require.NoError(t, err)

	require.Len(t, result.Actions, 1)
	assert.Equal(t, DefaultResponses().NotUnderstood, result.Actions[0].Text)
}

func TestHandleTurn_MissingTopIntentRejectsTurn(t *testing.T) {
	dispatcher := newTestDispatcher()

	in := messageTurn("", nil)
	_, err := dispatcher.HandleTurn(in)
	assert.ErrorIs(t, err, nlu.ErrMissingTopIntent)

	in.Recognition = nil
	_, err = dispatcher.HandleTurn(in)
	assert.ErrorIs(t, err, nlu.ErrMissingTopIntent)
}

func TestHandleTurn_CancelInterrupt(t *testing.T) {
	dispatcher := newTestDispatcher()

	in := messageTurn(pkg.IntentCancel, nil)
	in.HasActiveDialog = true
	in.DialogStatus = pkg.DialogStatusWaiting

	result, err := dispatcher.HandleTurn(in)
	require.NoError(t, err)

	assert.Equal(t, CommandCancelAll, result.Command)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, DefaultResponses().CancelAck, result.Actions[0].Text)
}

func TestHandleTurn_HelpDoesNotAdvanceDialog(t *testing.T) {
	dispatcher := newTestDispatcher()

	in := messageTurn(pkg.IntentHelp, nil)
	in.HasActiveDialog = true
	in.DialogStatus = pkg.DialogStatusWaiting

	result, err := dispatcher.HandleTurn(in)
	require.NoError(t, err)

	assert.Equal(t, CommandReprompt, result.Command)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, DefaultResponses().Help, result.Actions[0].Text)
}

func TestHandleTurn_SubDialogResponseTakesPrecedence(t *testing.T) {
	dispatcher := newTestDispatcher()

	// Even with a routable intent, a sub-dialog that already responded
	// this turn owns the turn.
	in := messageTurn(pkg.IntentBuy, map[string][]string{
		"수량": {"1주"}, "종목": {"신한지주"}, "단가": {"현재가"},
	})
	in.DialogResponded = true
	in.DialogStatus = pkg.DialogStatusWaiting

	result, err := dispatcher.HandleTurn(in)
	require.NoError(t, err)
	assert.Empty(t, result.Actions)
	assert.Equal(t, CommandNone, result.Command)
}

func TestHandleTurn_StatusBranches(t *testing.T) {
	dispatcher := newTestDispatcher()

	waiting := messageTurn(pkg.IntentBuy, nil)
	waiting.DialogStatus = pkg.DialogStatusWaiting
	result, err := dispatcher.HandleTurn(waiting)
	require.NoError(t, err)
	assert.Empty(t, result.Actions)
	assert.Equal(t, CommandNone, result.Command)

	complete := messageTurn(pkg.IntentBuy, nil)
	complete.DialogStatus = pkg.DialogStatusComplete
	result, err = dispatcher.HandleTurn(complete)
	require.NoError(t, err)
	assert.Equal(t, CommandEndDialog, result.Command)

	other := messageTurn(pkg.IntentBuy, nil)
	other.DialogStatus = pkg.DialogTurnStatus("corrupted")
	result, err = dispatcher.HandleTurn(other)
	require.NoError(t, err)
	assert.Equal(t, CommandCancelAll, result.Command)
	// Recovery is local: the user never sees an error message.
	assert.Empty(t, result.Actions)
}

func TestHandleTurn_MembersAdded(t *testing.T) {
	dispatcher := newTestDispatcher()

	result, err := dispatcher.HandleTurn(TurnInput{
		Activity: pkg.Activity{
			Kind:           pkg.ActivityMembersAdded,
			ConversationID: "conv-1",
			MembersAdded:   []string{"user-1", "stockbot", "user-2"},
		},
	})
	require.NoError(t, err)

	// One welcome card per joined member, skipping the bot itself.
	require.Len(t, result.Actions, 2)
	for _, action := range result.Actions {
		assert.Equal(t, pkg.ActionCard, action.Kind)
		assert.Equal(t, DefaultResponses().WelcomeTitle, action.Card.Title)
	}
}

func TestHandleTurn_GreetingSideChannelRunsOnEveryIntent(t *testing.T) {
	dispatcher := newTestDispatcher()

	// Name entity on a Buy turn still updates the greeting state.
	in := messageTurn(pkg.IntentBuy, map[string][]string{
		"userName": {"jane"},
	})
	in.Greeting = pkg.GreetingState{Name: "Old", City: "Seoul"}

	result, err := dispatcher.HandleTurn(in)
	require.NoError(t, err)
	assert.Equal(t, "Jane", result.Greeting.Name)
	assert.Equal(t, "Seoul", result.Greeting.City)
}
