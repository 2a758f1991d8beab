// Package validator valida DTOs con go-playground/validator y traduce los errores
// a domain.ValidationError usando los nombres JSON de los campos.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/jhoicas/schoolhub-api/internal/domain"
)

const requiredText = "this field is required"

// Validator envuelve la instancia de validación y su traductor en inglés.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New instancia el validador con mensajes en inglés y nombres de campo JSON.
func New() *Validator {
	v := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterTranslation("required", trans,
		func(t ut.Translator) error { return t.Add("required", requiredText, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T("required", fe.Field())
			return s
		},
	)

	return &Validator{validate: v, translator: trans}
}

// Struct valida s. Devuelve *domain.ValidationError con un error por campo, o nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError(err.Error())
	}
	out := domain.NewValidationError("validation failed")
	for _, fe := range verrs {
		out.Add(fieldPath(fe), fe.Translate(v.translator))
	}
	return out
}

// fieldPath arma la ruta JSON sin el nombre del struct raíz: "lines[0].feature_id".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
