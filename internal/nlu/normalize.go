package nlu

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"stockbot/pkg"
)

// Default recognizer entity keys for the order slots
const (
	EntityQuantity = "수량"
	EntityStock    = "종목"
	EntityPrice    = "단가"
)

// quantity unit markers stripped from the tail of a quantity candidate
var quantityUnits = []string{"주", "개"}

// priceRule is one price canonicalization substitution. Rules are tried
// in declaration order and exactly one is applied per candidate.
type priceRule struct {
	phrase string
	code   string
}

var priceRules = []priceRule{
	{"시장가", "mp"},
	{"현재가", "cp"},
	{"하한가", "lp"},
	{"상한가", "hp"},
	{"시간외단일가", "tp"},
}

// Aliases maps each slot to the recognizer entity keys that can fill it.
// Keys are tried in order; the first key with a non-empty candidate list
// wins.
type Aliases struct {
	Quantity []string `yaml:"quantity"`
	Stock    []string `yaml:"stock"`
	Price    []string `yaml:"price"`
	Name     []string `yaml:"name"`
	City     []string `yaml:"city"`
}

// DefaultAliases returns the built-in entity key table.
func DefaultAliases() Aliases {
	return Aliases{
		Quantity: []string{EntityQuantity},
		Stock:    []string{EntityStock},
		Price:    []string{EntityPrice},
		Name:     []string{"userName", "userName_patternAny"},
		City:     []string{"userCity", "userCity_patternAny"},
	}
}

// Normalizer converts raw recognizer entity maps into canonical order
// descriptors and maintains the greeting slot side channel.
type Normalizer struct {
	aliases Aliases
}

// NewNormalizer creates a normalizer with the given alias table. Empty
// alias lists fall back to the defaults per slot.
func NewNormalizer(aliases Aliases) *Normalizer {
	defaults := DefaultAliases()
	if len(aliases.Quantity) == 0 {
		aliases.Quantity = defaults.Quantity
	}
	if len(aliases.Stock) == 0 {
		aliases.Stock = defaults.Stock
	}
	if len(aliases.Price) == 0 {
		aliases.Price = defaults.Price
	}
	if len(aliases.Name) == 0 {
		aliases.Name = defaults.Name
	}
	if len(aliases.City) == 0 {
		aliases.City = defaults.City
	}
	return &Normalizer{aliases: aliases}
}

// Normalize builds an order descriptor from the recognizer entity map.
// Each field uses only the first candidate of the first matching key;
// later candidates are never aggregated.
func (n *Normalizer) Normalize(result *pkg.RecognitionResult) pkg.OrderDescriptor {
	var descriptor pkg.OrderDescriptor

	if text, ok := n.firstCandidate(result, n.aliases.Quantity); ok {
		descriptor.Quantity = normalizeQuantity(text)
	}
	if text, ok := n.firstCandidate(result, n.aliases.Stock); ok {
		descriptor.Stock = normalizeStock(text)
	}
	if text, ok := n.firstCandidate(result, n.aliases.Price); ok {
		descriptor.Price = normalizePrice(text)
	}

	return descriptor
}

// ApplyGreeting writes the name/city slots into the greeting state when
// present, overwriting any previous value. It reports whether the state
// changed. Last writer wins; there is no confirmation step.
func (n *Normalizer) ApplyGreeting(result *pkg.RecognitionResult, state *pkg.GreetingState) bool {
	changed := false
	if text, ok := n.firstCandidate(result, n.aliases.Name); ok {
		state.Name = capitalizeFirst(text)
		changed = true
	}
	if text, ok := n.firstCandidate(result, n.aliases.City); ok {
		state.City = capitalizeFirst(text)
		changed = true
	}
	return changed
}

func (n *Normalizer) firstCandidate(result *pkg.RecognitionResult, keys []string) (string, bool) {
	if result == nil {
		return "", false
	}
	for _, key := range keys {
		if text, ok := result.FirstEntity(key); ok {
			return text, true
		}
	}
	return "", false
}

// normalizeQuantity strips one trailing share counter (주/개) and leaves
// the rest of the text unchanged.
func normalizeQuantity(text string) string {
	for _, unit := range quantityUnits {
		if strings.HasSuffix(text, unit) {
			return strings.TrimSuffix(text, unit)
		}
	}
	return text
}

// normalizeStock removes all whitespace from the stock name.
func normalizeStock(text string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
}

// normalizePrice applies exactly one substitution: the 원 currency
// suffix is stripped, or the first matching market-phrase is replaced
// by its two-letter code. Text matching no rule passes through verbatim.
func normalizePrice(text string) string {
	if strings.HasSuffix(text, "원") {
		return strings.TrimSuffix(text, "원")
	}
	for _, rule := range priceRules {
		if strings.Contains(text, rule.phrase) {
			return strings.Replace(text, rule.phrase, rule.code, 1)
		}
	}
	return text
}

// capitalizeFirst upper-cases the first rune only. Non-Latin scripts
// have no case mapping and pass through byte for byte.
func capitalizeFirst(text string) string {
	if text == "" {
		return text
	}
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError && size <= 1 {
		return text
	}
	upper := unicode.ToUpper(r)
	if upper == r {
		return text
	}
	return string(upper) + text[size:]
}
