// Package instrument holds the selectable trading instruments and the
// placeholder substitution applied to prompt templates.
package instrument

import "strings"

// Placeholder is the token replaced by the selected instrument.
const Placeholder = "[INSTRUMENT]"

// TitlePair is the currency pair swapped for the selected instrument when a
// title is displayed.
const TitlePair = "EUR/USD"

const Default = "EUR/USD"

// Instruments is the ordered list offered to users.
var Instruments = []string{
	"USD/CHF",
	"USD/JPY",
	"USD/PLN",
	"USD/CAD",
	"USD/SGD",
	"USD/NOK",
	"EUR/CHF",
	"EUR/JPY",
	"EUR/NZD",
	"EUR/CAD",
	"EUR/PLN",
	"EUR/GBP",
	"EUR/USD",
	"EUR/AUD",
	"GBP/USD",
	"GBP/CAD",
	"GBP/CHF",
	"GBP/AUD",
	"GBP/JPY",
	"AUD/USD",
	"AUD/NZD",
	"AUD/JPY",
	"NZD/USD",
	"NZD/CHF",
	"NZD/JPY",
	"CAD/CHF",
	"CHF/PLN",
	"XAU/USD",
	"DE40",
	"US2000",
	"US500",
	"US100",
	"W20",
}

// Render replaces every placeholder in text with instrument, verbatim.
func Render(text, instrument string) string {
	return strings.ReplaceAll(text, Placeholder, instrument)
}

// RenderTitle swaps the first EUR/USD in title for instrument. Titles
// without the pair are returned unchanged.
func RenderTitle(title, instrument string) string {
	return strings.Replace(title, TitlePair, instrument, 1)
}

// Normalize trims and upper-cases a typed symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func Known(symbol string) bool {
	for _, s := range Instruments {
		if s == symbol {
			return true
		}
	}
	return false
}

// OrDefault returns symbol, or Default when symbol is empty.
func OrDefault(symbol string) string {
	if strings.TrimSpace(symbol) == "" {
		return Default
	}
	return symbol
}
