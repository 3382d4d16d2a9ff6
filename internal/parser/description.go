package parser

import (
	"strings"

	"hesab.local/pfm/internal/matcher"
)

// DefaultDescription is used when nothing meaningful is left after cleanup
const DefaultDescription = "تراکنش نامشخص"

// stopWords are verbs, prepositions and currency names stripped from descriptions
var stopWords = []string{
	"واریز", "دریافت", "حقوق", "خرید", "پرداخت", "هزینه", "برداشت", "خرج",
	"بابت", "برای", "تومان", "تومن", "ریال", "از", "به", "تراکنش موفق",
}

// Describe strips stop words and entity names from text and collapses whitespace.
// Every occurrence is removed, including ones inside longer words.
func Describe(text string, accounts, categories []matcher.Entity) string {
	description := text
	for _, word := range stopWords {
		description = strings.ReplaceAll(description, word, "")
	}
	for _, name := range matcher.Names(categories) {
		description = removeAll(description, name)
	}
	for _, name := range matcher.Names(accounts) {
		description = removeAll(description, name)
	}

	description = strings.Join(strings.Fields(description), " ")
	if description == "" {
		return DefaultDescription
	}
	return description
}

func removeAll(text, word string) string {
	if word == "" {
		return text
	}
	return strings.ReplaceAll(text, word, "")
}
