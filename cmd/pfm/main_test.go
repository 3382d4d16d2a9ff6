package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"hesab.local/pfm/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, a, err := execute(args...)
	if cerr := a.close(); cerr != nil {
		t.Errorf("close() error = %v", cerr)
	}
	return out, err
}

func execute(args ...string) (string, *app, error) {
	var out bytes.Buffer
	cfg := &config.Config{DBPath: ":memory:", LogLevel: "error"}
	cmd, a := newRootCmd(cfg, &out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), a, err
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "خرید قهوه ۵۰ هزار تومان از بانک ملت")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}

	var got parsed
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decoding %q: %v", out, err)
	}
	if got.Amount != "50000" || got.Type != "expense" || got.AccountName != "بانک ملت" || got.Description != "قهوه" {
		t.Errorf("parse = %+v", got)
	}
	if got.SavedID != 0 {
		t.Errorf("SavedID = %d without --save", got.SavedID)
	}
}

func TestParseCommandSave(t *testing.T) {
	out, err := run(t, "parse", "--save", "حقوق 2 میلیون واریز شد")
	if err != nil {
		t.Fatalf("parse error = %v", err)
	}
	var got parsed
	json.Unmarshal([]byte(out), &got)
	if got.SavedID != 1 || got.Type != "income" {
		t.Errorf("parse --save = %+v, want saved income", got)
	}
}

func TestParseCommandNotRecognized(t *testing.T) {
	_, err := run(t, "parse", "سلام")
	if !errors.Is(err, errNotRecognized) {
		t.Errorf("error = %v, want %v", err, errNotRecognized)
	}
}

func TestStoreClosedAfterFailedCommand(t *testing.T) {
	_, a, err := execute("parse", "سلام")
	if !errors.Is(err, errNotRecognized) {
		t.Fatalf("error = %v, want %v", err, errNotRecognized)
	}
	if _, err := a.store.Accounts(context.Background()); err != nil {
		t.Fatalf("store should still be open before close(): %v", err)
	}
	if err := a.close(); err != nil {
		t.Fatalf("close() error = %v", err)
	}
	if _, err := a.store.Accounts(context.Background()); err == nil {
		t.Error("Expected queries to fail after close()")
	}
}

func TestReportCommand(t *testing.T) {
	out, err := run(t, "report", "--period", "weekly")
	if err != nil {
		t.Fatalf("report error = %v", err)
	}
	if !strings.Contains(out, "۷ روز گذشته") {
		t.Errorf("report output = %q", out)
	}

	if _, err := run(t, "report", "--period", "yearly"); err == nil {
		t.Error("Expected error for unknown period")
	}
}

func TestExportCommand(t *testing.T) {
	out, err := run(t, "export", "--type", "expense")
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	if !strings.HasPrefix(out, "ID,Type,Amount,Description,Account,Category,Date") {
		t.Errorf("export output = %q", out)
	}

	if _, err := run(t, "export", "--type", "transfer"); err == nil {
		t.Error("Expected error for invalid type")
	}
}
