package validation

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Field limits shared by the request DTOs and the database schema
const (
	NameMaxLength  = 255
	ColorMaxLength = 64
	MaxAge         = 200
)

// TagNotBlank rejects strings made only of whitespace
const TagNotBlank = "notblank"

var registerOnce sync.Once

// Register adds the custom rules to gin's validator engine. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation(TagNotBlank, func(fl validator.FieldLevel) bool {
			return NotBlank(fl.Field().String())
		})
	})
}

// NotBlank reports whether s has at least one non-space character
func NotBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}
