package models

import (
	"errors"
	"strings"
	"testing"

	"github.com/ghuser/grocerylist/services/grocery/domain"
)

func TestNewItemName(t *testing.T) {
	t.Run("valid single character", func(t *testing.T) {
		n, err := NewItemName("a")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "a" {
			t.Fatalf("expected %q, got %q", "a", n.String())
		}
	})

	t.Run("valid 100 characters", func(t *testing.T) {
		s := strings.Repeat("x", 100)
		n, err := NewItemName(s)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != s {
			t.Fatalf("expected string of length 100, got %d", len(n.String()))
		}
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		n, err := NewItemName("  Milk \t\n")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "Milk" {
			t.Fatalf("expected %q, got %q", "Milk", n.String())
		}
	})

	t.Run("length is measured after trimming", func(t *testing.T) {
		s := "   " + strings.Repeat("y", 100) + "   "
		if _, err := NewItemName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("length counts code points, not bytes", func(t *testing.T) {
		s := strings.Repeat("é", 100) // 200 bytes
		if _, err := NewItemName(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("keeps inner whitespace", func(t *testing.T) {
		n, err := NewItemName("Whole  wheat\tbread")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n.String() != "Whole  wheat\tbread" {
			t.Fatalf("unexpected name %q", n.String())
		}
	})

	invalid := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty string", "", ReasonNameBlank},
		{"whitespace only", "   \t ", ReasonNameBlank},
		{"101 characters", strings.Repeat("x", 101), ReasonNameTooLong},
		{"101 code points", strings.Repeat("é", 101), ReasonNameTooLong},
		{"null character", "Mi\x00lk", ReasonNameNullChr},
	}
	for _, tt := range invalid {
		t.Run(tt.name+" returns error", func(t *testing.T) {
			_, err := NewItemName(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, domain.ErrInvalidItemName) {
				t.Fatalf("expected ErrInvalidItemName, got %v", err)
			}
			var fe *domain.FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("expected *domain.FieldError, got %T", err)
			}
			if fe.Field != "name" || fe.Reason != tt.reason {
				t.Errorf("got %s/%q, want name/%q", fe.Field, fe.Reason, tt.reason)
			}
		})
	}
}

func TestItemName_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   ItemName
		wantErr bool
	}{
		{"valid", "Bread", false},
		{"untrimmed", " Bread", true},
		{"empty", "", true},
		{"too long", ItemName(strings.Repeat("b", 101)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestItemName_String(t *testing.T) {
	n := ItemName("hello")
	if n.String() != "hello" {
		t.Fatalf("expected %q, got %q", "hello", n.String())
	}
}
