package dialog

import (
	"strings"

	"stockbot/pkg"
)

// TradeSide selects the confirmation phrasing and downstream event.
type TradeSide int

const (
	SideBuy TradeSide = iota
	SideSell
)

// EventName returns the downstream event carried alongside a
// confirmation for this side.
func (s TradeSide) EventName() string {
	if s == SideSell {
		return pkg.EventSellIntent
	}
	return pkg.EventBuyIntent
}

// changeAccountTarget is the static target of the generic change-account
// card action.
const changeAccountTarget = "action://change-account"

// Composer renders a complete order descriptor into the user-facing
// confirmation text and the structured card payload. It never mutates
// the descriptor; this is purely a presentation transform.
type Composer struct {
	responses Responses
}

// NewComposer creates a composer using the given message templates.
func NewComposer(responses Responses) *Composer {
	return &Composer{responses: responses.merge()}
}

// Compose builds the confirmation sentence and card for one side. The
// sentence concatenates, in fixed order, stock name, quantity with its
// share counter, and the price code, followed by the side's question.
// The confirm action target embeds the canonical serialized descriptor
// so a downstream consumer can replay the exact trade parameters
// without re-parsing natural language.
func (c *Composer) Compose(side TradeSide, descriptor pkg.OrderDescriptor) (string, pkg.Card) {
	suffix := c.responses.BuySuffix
	if side == SideSell {
		suffix = c.responses.SellSuffix
	}

	var text strings.Builder
	text.WriteString(descriptor.Stock)
	text.WriteString(" ")
	text.WriteString(descriptor.Quantity)
	text.WriteString("주 ")
	text.WriteString(descriptor.Price)
	text.WriteString(" ")
	text.WriteString(suffix)
	sentence := text.String()

	card := pkg.Card{
		Title: LegacyRoundTrip(sentence),
		Actions: []pkg.CardAction{
			{Title: LegacyRoundTrip(c.responses.ChangeAccount), Value: changeAccountTarget},
			{Title: LegacyRoundTrip(c.responses.Confirm), Value: LegacyRoundTrip(descriptor.Serialize())},
		},
	}

	return sentence, card
}

// WelcomeCard builds the card shown to each newly joined member.
func (c *Composer) WelcomeCard() pkg.Card {
	return pkg.Card{
		Title: LegacyRoundTrip(c.responses.WelcomeTitle),
		Body:  LegacyRoundTrip(c.responses.WelcomeBody),
	}
}
