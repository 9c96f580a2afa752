package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fhuszti/images-ms-go/internal/api_context"
	"github.com/fhuszti/images-ms-go/internal/uuid"
)

func TestInitWriter_AddsImageID(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "debug")

	buf := &bytes.Buffer{}
	InitWriter(buf)
	defer func() { std = nil }()

	id := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	Infof(api_context.WithID(context.Background(), id), "processing %s", "x")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "processing x" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["image_id"] != id.String() {
		t.Errorf("image_id = %v; want %s", entry["image_id"], id)
	}
	if entry["svc"] != "images-ms" {
		t.Errorf("svc = %v", entry["svc"])
	}
}

func TestInitWriter_NoImageID(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_LEVEL", "warn")

	buf := &bytes.Buffer{}
	InitWriter(buf)
	defer func() { std = nil }()

	Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	Warn(context.Background(), "kept")
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["image_id"] != "-" {
		t.Errorf("image_id = %v; want -", entry["image_id"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"warning": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
	}
	for in, want := range cases {
		if got := parseLevel(in).Level().String(); got != want {
			t.Errorf("parseLevel(%q) = %s; want %s", in, got, want)
		}
	}
}
