package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/otpauth/internal/pkg/strcase"
)

var reMobile = regexp.MustCompile(`^[0-9]{6,15}$`)

// ErrTranslatorNotFound indicates the English translator could not be loaded.
var ErrTranslatorNotFound = errors.New("validator: translator not found")

// ValidationError maps field paths (snake_case, dotted for nested values) to
// human readable messages.
type ValidationError map[string]string

func (ve ValidationError) Error() string {
	if len(ve) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(ve)
	if err != nil {
		return fmt.Sprintf("validation error: %v", err)
	}
	return string(b)
}

// Values returns the field error map.
func (ve ValidationError) Values() map[string]string {
	return ve
}

// IsMobile reports whether s is a 6 to 15 digit mobile number.
func IsMobile(s string) bool {
	return reMobile.MatchString(s)
}

// V10Validator implements Validator with go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(fieldName)

	enLang := en.New()
	enTrans, ok := ut.New(enLang, enLang).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerMobile(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fieldPath(fe.Namespace())] = fe.Translate(v.translator)
	}

	return out
}

// fieldName prefers the json name and falls back to the snake_cased Go name.
func fieldName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strcase.ToLowerSnake(sf.Name)
	default:
		return name
	}
}

// fieldPath drops the root struct name: "RegisterInput.addresses[0].city"
// becomes "addresses[0].city".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func registerMobile(validate *validator.Validate, trans ut.Translator) error {
	err := validate.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.String && IsMobile(fl.Field().String())
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation("mobile", trans,
		func(t ut.Translator) error {
			return t.Add("mobile", "{0} must be a mobile number of 6 to 15 digits", false)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("failed to translate validation error", "tag", fe.Tag(), "error", err)
				return fe.Error()
			}
			return msg
		},
	)
}
