package forms

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/gophprofile/internal/client/i18n"
	"github.com/dmitrijs2005/gophprofile/internal/client/models"
)

// Variant selects the name rule of the register form.
type Variant string

const (
	// VariantMobile requires a name of at least two characters.
	VariantMobile Variant = "mobile"
	// VariantWeb only requires a name.
	VariantWeb Variant = "web"
)

const minNameLen = 2

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator validates forms and localizes the failures.
type Validator struct {
	v       *validator.Validate
	tr      *i18n.Translator
	now     func() time.Time
	variant Variant
}

type Option func(*Validator)

func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

func WithVariant(variant Variant) Option {
	return func(v *Validator) { v.variant = variant }
}

func New(tr *i18n.Translator, opts ...Option) *Validator {
	val := &Validator{
		v:       validator.New(validator.WithRequiredStructEnabled()),
		tr:      tr,
		now:     time.Now,
		variant: VariantMobile,
	}
	for _, opt := range opts {
		opt(val)
	}

	val.v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = val.v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	_ = val.v.RegisterValidation("gradyear", func(fl validator.FieldLevel) bool {
		return val.validYear(fl.Field().String())
	})
	_ = val.v.RegisterValidation("namelen", func(fl validator.FieldLevel) bool {
		if val.variant == VariantWeb {
			return true
		}
		return utf8.RuneCountInString(fl.Field().String()) >= minNameLen
	})

	return val
}

func (val *Validator) validYear(s string) bool {
	_, err := models.ParseGraduationYear(s, val.now())
	return err == nil
}

// ValidateLogin only checks that both credentials are present.
func (val *Validator) ValidateLogin(f LoginForm) Errors {
	return val.check(f.trimmed())
}

func (val *Validator) ValidateRegister(f RegisterForm) Errors {
	return val.check(f.trimmed())
}

func (val *Validator) ValidateEdit(f EditForm) Errors {
	return val.check(f.trimmed())
}

func (val *Validator) check(form any) Errors {
	out := Errors{}
	err := val.v.Struct(form)
	if err == nil {
		return out
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = val.tr.T("form.invalid")
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = val.message(fe)
	}
	return out
}

func (val *Validator) message(fe validator.FieldError) string {
	tag := fe.Tag()
	var args []any

	switch tag {
	case "min":
		n, _ := strconv.Atoi(fe.Param())
		args = append(args, n)
	case "namelen":
		tag = "min"
		args = append(args, minNameLen)
	case "gradyear":
		// Years are passed preformatted so the printer does not group digits.
		args = append(args, strconv.Itoa(models.MinGraduationYear), strconv.Itoa(val.now().Year()))
	}

	if msg, ok := val.tr.Lookup("form."+fe.Field()+"."+tag, args...); ok {
		return msg
	}
	return val.tr.T("form.invalid")
}
