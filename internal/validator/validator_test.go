package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type sample struct {
	Answer    *string `json:"answer" binding:"required"`
	TimeSpent int     `json:"timeSpent" binding:"min=0"`
}

func TestTranslateErrors_UsesJSONNames(t *testing.T) {
	Setup()
	Setup()

	err := binding.Validator.ValidateStruct(&sample{TimeSpent: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	fields := TranslateErrors(err)
	if !strings.Contains(fields["answer"], "required") {
		t.Fatalf("expected translated required message, got %v", fields)
	}
	if _, ok := fields["timeSpent"]; !ok {
		t.Fatalf("expected timeSpent error, got %v", fields)
	}
}

func TestTranslateErrors_NonValidation(t *testing.T) {
	fields := TranslateErrors(errors.New("unexpected EOF"))
	if fields["detail"] != "unexpected EOF" {
		t.Fatalf("unexpected %v", fields)
	}
}
