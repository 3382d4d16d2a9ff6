package extractor

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractStructured(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantValue   string
		wantMatched string
	}{
		{
			name:        "Rial converted to Toman",
			text:        "مبلغ: 50,000 ریال",
			wantValue:   "5000",
			wantMatched: "مبلغ: 50,000 ریال",
		},
		{
			name:        "No currency unit",
			text:        "مبلغ: 50,000",
			wantValue:   "50000",
			wantMatched: "مبلغ: 50,000",
		},
		{
			name:        "No spaces around colon",
			text:        "برداشت مبلغ:1,250,000ریال موفق",
			wantValue:   "125000",
			wantMatched: "مبلغ:1,250,000ریال",
		},
		{
			name:        "Odd Rial amount keeps fraction",
			text:        "مبلغ : 12,345 ریال",
			wantValue:   "1234.5",
			wantMatched: "مبلغ : 12,345 ریال",
		},
		{
			name:        "No-break space after colon",
			text:        "مبلغ:\u00a050,000 ریال",
			wantValue:   "5000",
			wantMatched: "مبلغ:\u00a050,000 ریال",
		},
		{
			name:        "Arabic-Indic digits",
			text:        "مبلغ: ٥٠,٠٠٠ ریال",
			wantValue:   "5000",
			wantMatched: "مبلغ: ٥٠,٠٠٠ ریال",
		},
		{
			name:        "Trailing whitespace consumed without unit",
			text:        "مبلغ: 7,000 تومان",
			wantValue:   "7000",
			wantMatched: "مبلغ: 7,000 ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractStructured(tt.text)
			if got == nil {
				t.Fatalf("ExtractStructured(%q) = nil, want amount", tt.text)
			}
			if !got.Value.Equal(decimal.RequireFromString(tt.wantValue)) {
				t.Errorf("ExtractStructured() value = %s, want %s", got.Value, tt.wantValue)
			}
			if got.Matched != tt.wantMatched {
				t.Errorf("ExtractStructured() matched = %q, want %q", got.Matched, tt.wantMatched)
			}
			if got.Strategy != StrategyStructured {
				t.Errorf("ExtractStructured() strategy = %s, want %s", got.Strategy, StrategyStructured)
			}
		})
	}
}

func TestExtractStructuredNoMatch(t *testing.T) {
	inputs := []string{
		"",
		"خرید 50 هزار",
		"مبلغ 50,000",
		"مبلغ: ,",
	}
	for _, text := range inputs {
		if got := ExtractStructured(text); got != nil {
			t.Errorf("ExtractStructured(%q) = %+v, want nil", text, got)
		}
	}
}

func TestExtractConversational(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantValue   string
		wantMatched string
	}{
		{
			name:        "Thousand",
			text:        "خرید قهوه 50 هزار تومان",
			wantValue:   "50000",
			wantMatched: "50 هزار",
		},
		{
			name:        "Million",
			text:        "حقوق 2 میلیون واریز شد",
			wantValue:   "2000000",
			wantMatched: "2 میلیون",
		},
		{
			name:        "Billion",
			text:        "فروش خانه 3 میلیارد",
			wantValue:   "3000000000",
			wantMatched: "3 میلیارد",
		},
		{
			name:        "Decimal with magnitude",
			text:        "اجاره 2.5 میلیون",
			wantValue:   "2500000",
			wantMatched: "2.5 میلیون",
		},
		{
			name:        "Magnitude without space",
			text:        "نان 20هزار",
			wantValue:   "20000",
			wantMatched: "20هزار",
		},
		{
			name:        "Plain number keeps trailing space",
			text:        "تاکسی 85000 تومان",
			wantValue:   "85000",
			wantMatched: "85000 ",
		},
		{
			name:        "First number wins",
			text:        "خرید 2 کیلو سیب 150 هزار",
			wantValue:   "2",
			wantMatched: "2 ",
		},
		{
			name:        "Arabic-Indic digits",
			text:        "خرید ٥٠ هزار تومان",
			wantValue:   "50000",
			wantMatched: "٥٠ هزار",
		},
		{
			name:        "Thin space before magnitude",
			text:        "نان 20\u2009هزار",
			wantValue:   "20000",
			wantMatched: "20\u2009هزار",
		},
		{
			name:        "Cents preserved",
			text:        "کارمزد 12.75",
			wantValue:   "12.75",
			wantMatched: "12.75",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractConversational(tt.text)
			if got == nil {
				t.Fatalf("ExtractConversational(%q) = nil, want amount", tt.text)
			}
			if !got.Value.Equal(decimal.RequireFromString(tt.wantValue)) {
				t.Errorf("ExtractConversational() value = %s, want %s", got.Value, tt.wantValue)
			}
			if got.Matched != tt.wantMatched {
				t.Errorf("ExtractConversational() matched = %q, want %q", got.Matched, tt.wantMatched)
			}
		})
	}
}

func TestExtractConversationalUnparsable(t *testing.T) {
	inputs := []string{
		"بدون عدد",
		"نسخه 1.2.3 نصب شد",
		"تمام. بعدا 50 هزار",
	}
	for _, text := range inputs {
		if got := ExtractConversational(text); got != nil {
			t.Errorf("ExtractConversational(%q) = %+v, want nil", text, got)
		}
	}
}

func TestExtractPrefersStructured(t *testing.T) {
	got := Extract("واریز 3 میلیون مبلغ: 40,000 ریال")
	if got == nil {
		t.Fatal("Extract() = nil, want structured amount")
	}
	if got.Strategy != StrategyStructured {
		t.Errorf("Extract() strategy = %s, want %s", got.Strategy, StrategyStructured)
	}
	if !got.Value.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("Extract() value = %s, want 4000", got.Value)
	}
}

func TestExtractFallsBackToConversational(t *testing.T) {
	got := Extract("مبلغ: , خرید 5 هزار")
	if got == nil {
		t.Fatal("Extract() = nil, want conversational amount")
	}
	if got.Strategy != StrategyConversational {
		t.Errorf("Extract() strategy = %s, want %s", got.Strategy, StrategyConversational)
	}
	if !got.Value.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Extract() value = %s, want 5000", got.Value)
	}
}
