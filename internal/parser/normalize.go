package parser

import "strings"

// persianDigits maps Extended Arabic-Indic (Persian) digits to ASCII
var persianDigits = strings.NewReplacer(
	"۰", "0",
	"۱", "1",
	"۲", "2",
	"۳", "3",
	"۴", "4",
	"۵", "5",
	"۶", "6",
	"۷", "7",
	"۸", "8",
	"۹", "9",
)

// Normalize replaces Persian digits with ASCII digits and leaves everything else untouched
func Normalize(text string) string {
	return persianDigits.Replace(text)
}
