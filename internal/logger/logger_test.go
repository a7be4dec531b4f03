package logger

import (
	"context"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		wantErr bool
	}{
		{"prod json", "prod", "", false},
		{"local console", "local", "", false},
		{"level override", "dev", "debug", false},
		{"unknown env", "staging", "", true},
		{"bad level", "prod", "loud", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l == nil {
				t.Fatal("logger is nil")
			}
		})
	}
}

func TestFromContext_NopOutsideRequest(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a nop logger, got nil")
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	l, err := NewLogger("local", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Fatal("context must return the stored logger")
	}
}
