package matcher

import "testing"

func TestMatch(t *testing.T) {
	accounts := []Entity{
		{ID: 1, Name: "بانک ملت"},
		{ID: 2, Name: "بانک سامان"},
		{ID: 3, Name: "کیف پول"},
	}

	tests := []struct {
		name     string
		text     string
		entities []Entity
		wantID   int64
		wantOK   bool
	}{
		{
			name:     "Single match",
			text:     "خرید نان از کیف پول",
			entities: accounts,
			wantID:   3,
			wantOK:   true,
		},
		{
			name:     "List order wins over text position",
			text:     "انتقال از بانک سامان به بانک ملت",
			entities: accounts,
			wantID:   1,
			wantOK:   true,
		},
		{
			name:     "No match",
			text:     "خرید قهوه",
			entities: accounts,
			wantOK:   false,
		},
		{
			name:     "Empty list",
			text:     "بانک ملت",
			entities: nil,
			wantOK:   false,
		},
		{
			name:     "Substring inside unrelated word still matches",
			text:     "خرید کتابخانه",
			entities: []Entity{{ID: 9, Name: "کتاب"}},
			wantID:   9,
			wantOK:   true,
		},
		{
			name:     "Empty name skipped",
			text:     "هر متنی",
			entities: []Entity{{ID: 4, Name: ""}, {ID: 5, Name: "متن"}},
			wantID:   5,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotOK := Match(tt.text, tt.entities)
			if gotOK != tt.wantOK {
				t.Fatalf("Match() ok = %v, want %v", gotOK, tt.wantOK)
			}
			if gotOK && gotID != tt.wantID {
				t.Errorf("Match() id = %d, want %d", gotID, tt.wantID)
			}
		})
	}
}

func TestMatchID(t *testing.T) {
	entities := []Entity{{ID: 7, Name: "ملت"}}

	if got := MatchID("از حساب ملت", entities); got == nil || *got != 7 {
		t.Errorf("MatchID() = %v, want 7", got)
	}
	if got := MatchID("از حساب سامان", entities); got != nil {
		t.Errorf("MatchID() = %d, want nil", *got)
	}
}

func TestNameOf(t *testing.T) {
	entities := []Entity{{ID: 1, Name: "خرید"}, {ID: 2, Name: "قبوض"}}
	id := int64(2)
	missing := int64(99)

	if got := NameOf(&id, entities, "نامشخص"); got != "قبوض" {
		t.Errorf("NameOf() = %q, want %q", got, "قبوض")
	}
	if got := NameOf(&missing, entities, "نامشخص"); got != "نامشخص" {
		t.Errorf("NameOf(unknown) = %q, want fallback", got)
	}
	if got := NameOf(nil, entities, "نامشخص"); got != "نامشخص" {
		t.Errorf("NameOf(nil) = %q, want fallback", got)
	}
}
