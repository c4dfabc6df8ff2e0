package validator_test

import (
	"errors"
	"strings"
	"testing"

	"anoa.com/vxrank/pkg/validator"
	playground "github.com/go-playground/validator/v10"
)

type onboardingInput struct {
	Sports          []string `validate:"required,min=1"`
	ExperienceLevel string   `validate:"required,oneof=Beginner Novice Intermediate Advanced Pro"`
	Bio             string   `validate:"max=5"`
}

func TestFormatValidationError(t *testing.T) {
	v := playground.New()
	err := v.Struct(onboardingInput{ExperienceLevel: "Legend", Bio: "far too long"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	msg := validator.FormatValidationError(err)
	for _, want := range []string{
		"Sports is required",
		"Experience level must be one of: Beginner Novice Intermediate Advanced Pro",
		"Bio must be at most 5 characters",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestFormatValidationError_PlainError(t *testing.T) {
	if got := validator.FormatValidationError(errors.New("EOF")); got != "EOF" {
		t.Errorf("expected EOF, got %q", got)
	}
}
