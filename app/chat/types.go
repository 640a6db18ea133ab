package chat

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const DefaultLanguage = "en"

type ChatQuery struct {
	Query    string `json:"query" validate:"required,notblank"`
	Language string `json:"language"`
}

type Source struct {
	Source      string  `json:"source"`
	Score       float64 `json:"score"`
	TextPreview string  `json:"text_preview"`
}

type ChatAnswer struct {
	Answer         string   `json:"answer"`
	Sources        []Source `json:"sources"`
	ProcessingTime float64  `json:"processing_time"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// Normalize fills the default language and validates the query. Unknown
// language codes are accepted and answered in English.
func (q *ChatQuery) Normalize() error {
	if q.Language == "" {
		q.Language = DefaultLanguage
	}
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("invalid query: %w", err)
	}
	return nil
}
