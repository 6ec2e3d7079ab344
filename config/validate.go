package config

import (
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/kochabx/requex/errors"
)

// Validator checks a loaded configuration struct
type Validator interface {
	Struct(s any) error
}

// FieldError is one failed rule, with a human readable message
type FieldError struct {
	Namespace string
	Tag       string
	Message   string
}

// ValidationErrors 校验错误列表
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, fe := range ve {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// FieldErrors flattens the validation errors in err into namespace ->
// message pairs, suitable for errors.Error metadata
func FieldErrors(err error) map[string]string {
	var ve ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		out[fe.Namespace] = fe.Message
	}
	return out
}

type validate struct {
	validator *validator.Validate
	trans     ut.Translator
}

var (
	defaultValidator Validator
	once             sync.Once
)

// DefaultValidator returns the shared validator with English messages
func DefaultValidator() Validator {
	once.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// NewValidator creates a validator that reads `validate` struct tags
func NewValidator() Validator {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	// 注册英文翻译
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &validate{validator: v, trans: trans}
}

// Struct 校验结构体
func (v *validate) Struct(s any) error {
	if s == nil {
		return errors.BadRequest("validation target cannot be nil")
	}

	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, FieldError{
			Namespace: fe.Namespace(),
			Tag:       fe.Tag(),
			Message:   fe.Translate(v.trans),
		})
	}
	return out
}
