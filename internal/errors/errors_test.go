package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "validation error",
			err:      NewValidation("title", "must not be empty"),
			expected: "Error: invalid title: must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("habit %q not found", "Read")
	want := `Error: habit "Read" not found`
	if got != want {
		t.Errorf("Formatf() = %q, want %q", got, want)
	}
}

func TestNotFoundMatching(t *testing.T) {
	err := fmt.Errorf("delete habit: %w", NewNotFound("habit", "abc"))

	if !errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = false, want true")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
	if IsValidation(err) || IsStorage(err) {
		t.Error("not-found error matched another kind")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatal("errors.As failed for NotFoundError")
	}
	if nf.Kind != "habit" || nf.ID != "abc" {
		t.Errorf("unexpected fields: %+v", nf)
	}
}

func TestStorageErrorUnwrap(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewStorage("add session", cause)

	if !IsStorage(err) {
		t.Error("IsStorage() = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("StorageError does not unwrap to its cause")
	}
	if got := err.Error(); got != "storage: add session: disk I/O error" {
		t.Errorf("Error() = %q", got)
	}
	if NewStorage("noop", nil) != nil {
		t.Error("NewStorage(nil) should return nil")
	}
}

func TestIsValidation(t *testing.T) {
	err := fmt.Errorf("add note: %w", NewValidation("text", "must not be empty"))
	if !IsValidation(err) {
		t.Error("IsValidation() = false, want true")
	}
	if IsValidation(errors.New("plain")) {
		t.Error("IsValidation() = true for plain error")
	}
}
