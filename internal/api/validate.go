package api

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/id"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	id_translations "github.com/go-playground/validator/v10/translations/id"
)

const notBlankTag = "notblank"

// requestValidator validates request bodies and renders failures in the
// caller's language. English is the fallback; Indonesian is chosen by
// Accept-Language.
type requestValidator struct {
	validate *validator.Validate
	uni      *ut.UniversalTranslator
}

func newValidator() *requestValidator {
	v := validator.New()

	// Report JSON field names instead of Go struct names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}, true)

	_en := en.New()
	uni := ut.New(_en, _en, id.New())

	enTrans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, enTrans)
	registerNotBlank(v, enTrans, "{0} is required")

	idTrans, _ := uni.GetTranslator("id")
	_ = id_translations.RegisterDefaultTranslations(v, idTrans)
	registerNotBlank(v, idTrans, "{0} wajib diisi")

	return &requestValidator{validate: v, uni: uni}
}

func registerNotBlank(v *validator.Validate, trans ut.Translator, text string) {
	_ = v.RegisterTranslation(notBlankTag, trans,
		func(t ut.Translator) error {
			return t.Add(notBlankTag, text, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(notBlankTag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
}

// translator picks the best translator for the request's Accept-Language.
func (rv *requestValidator) translator(r *http.Request) ut.Translator {
	var locales []string
	for part := range strings.SplitSeq(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if tag == "" {
			continue
		}
		tag = strings.ReplaceAll(tag, "-", "_")
		locales = append(locales, tag)
		if primary, _, ok := strings.Cut(tag, "_"); ok {
			locales = append(locales, primary)
		}
	}
	trans, _ := rv.uni.FindTranslator(locales...)
	return trans
}

// check validates v and flattens any failures into one line.
func (rv *requestValidator) check(r *http.Request, v any) error {
	err := rv.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	trans := rv.translator(r)
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}
