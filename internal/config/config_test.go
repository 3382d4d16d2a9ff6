package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"TELEGRAM_TOKEN", "ALLOWED_USER_IDS", "PFM_DB_PATH", "PFM_PORT", "PFM_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	t.Setenv("PFM_PORT", "8000")
	t.Setenv("PFM_DB_PATH", "data/finance.db")

	cfg := fromEnv()
	if cfg.Port != 8000 {
		t.Errorf("Port = %d, want 8000", cfg.Port)
	}
	if cfg.DBPath != "data/finance.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "data/finance.db")
	}
	if len(cfg.AllowedUserIDs) != 0 {
		t.Errorf("AllowedUserIDs = %v, want empty", cfg.AllowedUserIDs)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("ALLOWED_USER_IDS", "42, 7")
	t.Setenv("PFM_DB_PATH", "/tmp/pfm.db")
	t.Setenv("PFM_PORT", "9090")
	t.Setenv("PFM_LOG_LEVEL", "debug")

	cfg := fromEnv()
	if cfg.TelegramToken != "123:abc" {
		t.Errorf("TelegramToken = %q, want %q", cfg.TelegramToken, "123:abc")
	}
	if len(cfg.AllowedUserIDs) != 2 || cfg.AllowedUserIDs[0] != 42 || cfg.AllowedUserIDs[1] != 7 {
		t.Errorf("AllowedUserIDs = %v, want [42 7]", cfg.AllowedUserIDs)
	}
	if cfg.DBPath != "/tmp/pfm.db" || cfg.Port != 9090 || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestFromEnvBadPort(t *testing.T) {
	t.Setenv("PFM_PORT", "eighty")
	if got := fromEnv().Port; got != 8000 {
		t.Errorf("Port = %d, want 8000", got)
	}
}

func TestParseUserIDs(t *testing.T) {
	tests := []struct {
		input string
		want  []int64
	}{
		{"", nil},
		{"1", []int64{1}},
		{"1,2,,3", []int64{1, 2, 3}},
		{"1,abc", nil},
	}
	for _, tt := range tests {
		got := parseUserIDs(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseUserIDs(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseUserIDs(%q)[%d] = %d, want %d", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
