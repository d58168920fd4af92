package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestGetDefault(t *testing.T) {
	if found := Get(context.Background()); found != slog.Default() {
		t.Fatalf("Get(): wanted `slog.Default()`; found `%v`", found)
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	ctx := Set(
		context.Background(),
		slog.New(slog.NewTextHandler(&buf, nil)),
	)
	Get(With(ctx, "disk", "disk0")).Info("mounted")

	if found := buf.String(); !strings.Contains(found, "disk=disk0") {
		t.Fatalf("log line: wanted `disk=disk0`; found `%s`", found)
	}
}
