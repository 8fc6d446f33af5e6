package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "explicit suggestion wins",
			err:  WithSuggestion(ErrBackendUnavailable, "custom"),
			want: "custom",
		},
		{
			name: "wrapped backend error",
			err:  fmt.Errorf("searchVideo: %w", ErrBackendUnavailable),
			want: "Make sure the game client is running and the resource is started",
		},
		{
			name: "deadline",
			err:  errors.New("context deadline exceeded"),
			want: "The backend is slow to respond. Try again in a moment",
		},
		{
			name: "unknown setting",
			err:  fmt.Errorf("%w: colour", ErrUnknownSetting),
			want: "Run 'tokyobox settings show' to list the known settings",
		},
		{
			name: "unrelated",
			err:  errors.New("boom"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetSuggestion(tt.err); got != tt.want {
				t.Errorf("GetSuggestion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}

	got := Format(ErrMissingElement)
	if !strings.HasPrefix(got, "Error: missing required element") || !strings.Contains(got, "Suggestion:") {
		t.Errorf("Format() = %q", got)
	}

	if got := Format(errors.New("boom")); got != "Error: boom" {
		t.Errorf("Format() = %q, want %q", got, "Error: boom")
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("volume %d out of range", 120)
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("Invalid() should wrap ErrInvalidInput")
	}
	if err.Error() != "invalid input: volume 120 out of range" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestPartialResult(t *testing.T) {
	var p PartialResult[int]
	p.AddError(nil)
	if p.HasErrors() {
		t.Fatal("AddError(nil) recorded an error")
	}

	p.AddError(errors.New("first"))
	if p.ErrorSummary() != "first" {
		t.Errorf("ErrorSummary() = %q, want %q", p.ErrorSummary(), "first")
	}

	p.AddError(errors.New("second"))
	if !strings.HasPrefix(p.ErrorSummary(), "2 errors occurred:") {
		t.Errorf("ErrorSummary() = %q", p.ErrorSummary())
	}
}
