package handler

import (
	"errors"
	"testing"

	"github.com/hbnb/hbnb-api/internal/core/domain"
)

func TestValidator_Messages(t *testing.T) {
	type sample struct {
		Email string   `json:"email" validate:"required,email"`
		Name  string   `json:"name"  validate:"max=3"`
		IDs   []string `json:"ids"   validate:"dive,required"`
	}

	tests := []struct {
		name  string
		input sample
		want  string
	}{
		{name: "missing", input: sample{}, want: "Missing email"},
		{name: "bad email", input: sample{Email: "nope"}, want: "Invalid email"},
		{name: "other tag", input: sample{Email: "a@b.co", Name: "toolong"}, want: "Invalid name (max)"},
		{name: "empty element", input: sample{Email: "a@b.co", IDs: []string{"x", ""}}, want: "Invalid ids"},
	}

	v := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.input)
			var ce *domain.ClientError
			if !errors.As(err, &ce) || ce.Message != tt.want {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}

	if err := v.Validate(&sample{Email: "a@b.co", IDs: []string{"x"}}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}
