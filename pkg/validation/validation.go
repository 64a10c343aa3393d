package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

const notBlankTag = "notblank"

// Validator wraps go-playground/validator with English messages and JSON
// field names.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator with the directory's custom rules registered. It
// panics if a rule or translation fails to register.
func New() *Validator {
	v, err := build()
	if err != nil {
		panic(err)
	}
	return v
}

func build() (*Validator, error) {
	validate := validator.New()

	locale := en.New()
	translator, found := ut.New(locale, locale).GetTranslator("en")
	if !found {
		return nil, errors.New("validation: en translator not found")
	}
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, fmt.Errorf("validation: register translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation(notBlankTag, notBlank); err != nil {
		return nil, fmt.Errorf("validation: register %s: %w", notBlankTag, err)
	}
	err := validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(ut.Translator, validator.FieldError) string { return "this field cannot be blank" },
	)
	if err != nil {
		return nil, fmt.Errorf("validation: translate %s: %w", notBlankTag, err)
	}

	return &Validator{validate: validate, translator: translator}, nil
}

// Engine exposes the underlying validator.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Struct validates s and returns one FieldError per failing field. A nil
// result means s is valid.
func (v *Validator) Struct(s interface{}) []appErrors.FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []appErrors.FieldError{{Field: "", Rule: "invalid", Message: err.Error()}}
	}
	out := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, appErrors.FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: fe.Translate(v.translator),
		})
	}
	return out
}

// fieldPath drops the root struct name from the namespace, so nested and
// slice elements read like "subjects[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func notBlank(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.String:
		return strings.TrimSpace(fl.Field().String()) != ""
	default:
		return !fl.Field().IsZero()
	}
}
