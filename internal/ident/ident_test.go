package ident

import (
	"errors"
	"testing"
)

func TestReconcileAccepts(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"int", 42, 42},
		{"int64", int64(7), 7},
		{"float", 19995.0, 19995},
		{"numeric string", "862", 862},
		{"float string", "862.0", 862},
		{"padded string", "  550  ", 550},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Reconcile(tt.in)
			if err != nil {
				t.Fatalf("Reconcile(%v) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Reconcile(%v) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestReconcileRejects(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"slash date", "1/2/1997"},
		{"iso date", "1997-08-20"},
		{"reversed dash date", "20-08-1997"},
		{"slash iso date", "1997/08/20"},
		{"jpg path", "poster.jpg"},
		{"jpg anywhere", "/images/15.jpg?x=1"},
		{"png", "cover.png"},
		{"gif", "anim.gif"},
		{"pdf", "script.pdf"},
		{"word", "unknown"},
		{"empty", ""},
		{"whitespace", "   "},
		{"nil", nil},
		{"zero", 0},
		{"negative", -12},
		{"negative string", "-12"},
		{"zero string", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Reconcile(tt.in); !errors.Is(err, ErrInvalid) {
				t.Errorf("Reconcile(%v) error = %v, want ErrInvalid", tt.in, err)
			}
		})
	}
}

func TestReconcileStringMatchesReconcile(t *testing.T) {
	got, err := ReconcileString("550")
	if err != nil || got != 550 {
		t.Fatalf("ReconcileString(550) = %d, %v", got, err)
	}
}
