package coreerrors

import (
	"errors"
	"testing"
)

func TestKindRetryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindTransient, true},
		{KindInvalidArgument, false},
		{KindBusy, false},
		{KindNotFound, false},
		{KindInternal, false},
	}
	for _, tt := range tests {
		if got := tt.kind.Retryable(); got != tt.want {
			t.Errorf("Kind(%s).Retryable() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestNewAndError(t *testing.T) {
	err := New(KindNotFound, "task %q not found", "abc")
	if err.Kind != KindNotFound {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
	}
	want := `[NotFound] task "abc" not found`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Retryable {
		t.Error("NotFound should not be retryable")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindTransient, cause, "dial db")
	if !errors.Is(err, cause) {
		t.Error("Wrap should preserve the cause for errors.Is")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap should return the original cause")
	}
}

func TestAs(t *testing.T) {
	err := New(KindBusy, "session busy")
	wrapped := errors.New("outer: " + err.Error())

	if _, ok := As(err); !ok {
		t.Error("As should find the *Error directly")
	}
	if _, ok := As(wrapped); ok {
		t.Error("As should not find a *Error inside a plain fmt error with no Unwrap chain")
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("KindOf(plain error) = %v, want %v", got, KindInternal)
	}
	if got := KindOf(New(KindConflict, "x")); got != KindConflict {
		t.Errorf("KindOf(*Error) = %v, want %v", got, KindConflict)
	}
}
