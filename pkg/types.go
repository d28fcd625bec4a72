package pkg

// Core types shared across the turn-processing pipeline

// EntityCandidate is one recognizer candidate for an entity slot
type EntityCandidate struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
	Type  string  `json:"type"`
}

// RecognitionResult is the recognizer's output for one utterance.
// Entity type keys are domain-specific strings, not a closed set; each
// candidate list is ordered the way the recognizer ranked it.
type RecognitionResult struct {
	TopIntent string                       `json:"top_intent"`
	Entities  map[string][]EntityCandidate `json:"entities"`
}

// FirstEntity returns the first candidate text for an entity key.
// A key present with an empty candidate list behaves exactly like an
// absent key.
func (r *RecognitionResult) FirstEntity(key string) (string, bool) {
	candidates, ok := r.Entities[key]
	if !ok || len(candidates) == 0 {
		return "", false
	}
	return candidates[0].Text, true
}

// Intent names produced by the recognizer
const (
	IntentGreeting = "Greeting"
	IntentBuy      = "Buy"
	IntentSell     = "Sell"
	IntentBalance  = "Balance"
	IntentCancel   = "Cancel"
	IntentHelp     = "Help"
	IntentNone     = "None"
)

// DialogTurnStatus is the state of the active sub-dialog, owned by the
// dialog runtime and read-only to this core.
type DialogTurnStatus string

const (
	DialogStatusEmpty    DialogTurnStatus = "empty"
	DialogStatusWaiting  DialogTurnStatus = "waiting"
	DialogStatusComplete DialogTurnStatus = "complete"
	DialogStatusOther    DialogTurnStatus = "other"
)

// GreetingState is the per-user persisted greeting slot record.
// Writes are last-writer-wins with no confirmation step.
type GreetingState struct {
	Name string `json:"name,omitempty"`
	City string `json:"city,omitempty"`
}

// DialogState is the per-conversation persisted dialog record.
type DialogState struct {
	ConversationID string           `json:"conversation_id"`
	ActiveDialog   string           `json:"active_dialog,omitempty"`
	Step           string           `json:"step,omitempty"`
	Status         DialogTurnStatus `json:"status"`
	UpdatedAt      int64            `json:"updated_at"`
}

// HasActiveDialog reports whether a sub-dialog is currently active.
func (d *DialogState) HasActiveDialog() bool {
	return d.ActiveDialog != ""
}

// ActivityKind distinguishes user messages from channel system events
type ActivityKind string

const (
	ActivityMessage      ActivityKind = "message"
	ActivityMembersAdded ActivityKind = "membersAdded"
)

// Activity is one inbound channel event for a conversation.
type Activity struct {
	Kind           ActivityKind `json:"kind"`
	ConversationID string       `json:"conversation_id"`
	UserID         string       `json:"user_id"`
	Text           string       `json:"text,omitempty"`
	MembersAdded   []string     `json:"members_added,omitempty"`
}

// ActionKind is the outbound action discriminator
type ActionKind string

const (
	ActionMessage ActionKind = "message"
	ActionCard    ActionKind = "card"
	ActionEvent   ActionKind = "event"
)

// Downstream event names carried on ActionEvent actions
const (
	EventBuyIntent     = "buy-intent"
	EventSellIntent    = "sell-intent"
	EventBalanceIntent = "balance-intent"
)

// CardAction is one tappable action on a card attachment.
type CardAction struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// Card is a structured card attachment (title/body/action list).
type Card struct {
	Title   string       `json:"title"`
	Body    string       `json:"body,omitempty"`
	Actions []CardAction `json:"actions,omitempty"`
}

// OutboundAction is one ordered output of a turn: a plain text message,
// a card attachment, or a named structured event whose value is the
// canonical descriptor string.
type OutboundAction struct {
	ID    string     `json:"id"`
	Kind  ActionKind `json:"kind"`
	Text  string     `json:"text,omitempty"`
	Card  *Card      `json:"card,omitempty"`
	Event string     `json:"event,omitempty"`
	Value string     `json:"value,omitempty"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	Format     string `envconfig:"LOG_FORMAT" default:"console"`
	Output     string `envconfig:"LOG_OUTPUT" default:"stdout"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"rfc3339"`
	FilePath   string `envconfig:"LOG_FILE_PATH" default:"logs/stockbot.log"`
}

// RedisConfig holds state store configuration
type RedisConfig struct {
	URL        string `envconfig:"REDIS_URL"`
	TTLSeconds int    `envconfig:"REDIS_TTL" default:"2400"`
}

// RecognizerConfig holds the recognizer endpoint configuration
type RecognizerConfig struct {
	URL            string `envconfig:"RECOGNIZER_URL"`
	APIKey         string `envconfig:"RECOGNIZER_API_KEY"`
	TimeoutSeconds int    `envconfig:"RECOGNIZER_TIMEOUT" default:"10"`
}

// BotConfig identifies the bot inside a conversation
type BotConfig struct {
	ID   string `envconfig:"BOT_ID" default:"stockbot"`
	Name string `envconfig:"BOT_NAME" default:"주식벗"`
}
