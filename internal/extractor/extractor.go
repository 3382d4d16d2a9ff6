package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Strategy identifies which pattern produced an amount
type Strategy string

const (
	StrategyStructured     Strategy = "structured"
	StrategyConversational Strategy = "conversational"
)

// Amount represents an amount extracted from a message
type Amount struct {
	Value    decimal.Decimal // Always in Toman
	Matched  string          // Exact substring the pattern consumed
	Strategy Strategy
}

// Digit and space classes cover Arabic-Indic digits and Unicode spaces
// (no-break, thin, line separators) as well as ASCII.
const (
	digit = `0-9٠-٩۰-۹`
	space = `[\s\p{Z}\x{85}]`
)

var (
	// Structured receipt label: "مبلغ: 1,250,000 ریال"
	structuredPattern = regexp.MustCompile(`مبلغ` + space + `*:` + space + `*([` + digit + `,]+)` + space + `*(ریال)?`)

	// Conversational amount: "50 هزار", "2.5 میلیون", "120000"
	conversationalPattern = regexp.MustCompile(`([` + digit + `.]+)` + space + `*(هزار|میلیون|میلیارد)?`)

	asciiDigits = strings.NewReplacer(
		"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
		"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
		"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
		"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	)

	rialsPerToman = decimal.NewFromInt(10)

	// Magnitude word to multiplier mapping
	magnitudes = map[string]decimal.Decimal{
		"هزار":    decimal.NewFromInt(1_000),
		"میلیون":  decimal.NewFromInt(1_000_000),
		"میلیارد": decimal.NewFromInt(1_000_000_000),
	}
)

// Extract finds the first amount in already normalized text.
// The structured pattern wins over the conversational one; nil means no amount.
func Extract(text string) *Amount {
	if amount := ExtractStructured(text); amount != nil {
		return amount
	}
	return ExtractConversational(text)
}

// ExtractStructured matches the labelled "مبلغ:" form. Rial amounts are converted to Toman.
func ExtractStructured(text string) *Amount {
	match := structuredPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	value, err := decimal.NewFromString(asciiDigits.Replace(strings.ReplaceAll(match[1], ",", "")))
	if err != nil {
		// A bare run of commas is not an amount
		return nil
	}
	if match[2] == "ریال" {
		value = value.Div(rialsPerToman)
	}

	return &Amount{
		Value:    value,
		Matched:  match[0],
		Strategy: StrategyStructured,
	}
}

// ExtractConversational matches the first number, optionally followed by a magnitude word.
// A malformed first number ("1.2.3", ".") yields nil; later numbers are not tried.
func ExtractConversational(text string) *Amount {
	match := conversationalPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	value, err := decimal.NewFromString(asciiDigits.Replace(match[1]))
	if err != nil {
		return nil
	}
	if multiplier, ok := magnitudes[match[2]]; ok {
		value = value.Mul(multiplier)
	}

	return &Amount{
		Value:    value,
		Matched:  match[0],
		Strategy: StrategyConversational,
	}
}
