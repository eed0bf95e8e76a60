// Package registration validates the user registration form.
package registration

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"resume-builder/internal/domain"
	"resume-builder/internal/refdata"
	"resume-builder/internal/validate"

	"github.com/go-playground/validator/v10"
)

// MinAge is the youngest age accepted at registration.
const MinAge = 18

// Form is the submitted registration form. Multi-selects arrive as arrays.
type Form struct {
	FullName       string   `json:"fullName" validate:"required,fullname"`
	AddressLine1   string   `json:"addressLine1" validate:"required,min=5"`
	AddressLine2   string   `json:"addressLine2,omitempty"`
	CityCapital    string   `json:"cityCapital" validate:"required,ref=cities"`
	State          string   `json:"state" validate:"required,ref=states"`
	PostalCode     string   `json:"postalCode" validate:"required,pincode"`
	DateOfBirth    string   `json:"dateOfBirth" validate:"required,adult"`
	Gender         string   `json:"gender" validate:"required"`
	CityMulti      []string `json:"cityMulti" validate:"min=1,dive,ref=cities"`
	PincodeMulti   []string `json:"pincodeMulti,omitempty" validate:"omitempty,dive,ref=pincodes"`
	Languages      []string `json:"languages" validate:"min=1,dive,ref=languages"`
	Status         string   `json:"status" validate:"required"`
	OnboardingDate string   `json:"onboardingDate" validate:"required,onboarding"`
	Type           string   `json:"type" validate:"required"`
}

// messages holds one message per field, whichever rule failed.
var messages = map[string]string{
	"fullName":       "Please enter a valid name (2-50 characters, letters only)",
	"addressLine1":   "Address must be at least 5 characters long",
	"cityCapital":    "Please select a capital city",
	"state":          "Please select a state",
	"postalCode":     "Please enter a valid 6-digit PIN code",
	"dateOfBirth":    "You must be at least 18 years old",
	"gender":         "Please select a gender",
	"cityMulti":      "Please select at least one preferred city",
	"pincodeMulti":   "Please select valid PIN codes",
	"languages":      "Please select at least one language",
	"status":         "Please select a status",
	"onboardingDate": "Please select an onboarding date",
	"type":           "Please select a user type",
}

var (
	fullNameRe = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	pincodeRe  = regexp.MustCompile(`^[0-9]{6}$`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// earliestOnboarding is the first accepted onboarding date.
var earliestOnboarding = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Validator checks forms against the field rules and, when a reference
// store is set, the select options.
type Validator struct {
	v    *validator.Validate
	refs *refdata.Store
	now  func() time.Time
}

type Option func(*Validator)

// WithClock overrides the clock used for the age and onboarding checks.
func WithClock(now func() time.Time) Option { return func(v *Validator) { v.now = now } }

func New(refs *refdata.Store, opts ...Option) *Validator {
	rv := &Validator{v: validator.New(validator.WithRequiredStructEnabled()), refs: refs, now: time.Now}
	for _, o := range opts {
		o(rv)
	}

	rv.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = rv.v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return fullNameRe.MatchString(fl.Field().String())
	})
	_ = rv.v.RegisterValidation("pincode", func(fl validator.FieldLevel) bool {
		return pincodeRe.MatchString(fl.Field().String())
	})
	_ = rv.v.RegisterValidation("adult", func(fl validator.FieldLevel) bool {
		return validate.Age(fl.Field().String(), MinAge, rv.now())
	})
	_ = rv.v.RegisterValidation("onboarding", func(fl validator.FieldLevel) bool {
		d, ok := validate.ParseDate(fl.Field().String())
		if !ok {
			return false
		}
		return !d.Before(earliestOnboarding) && !d.After(rv.now().UTC())
	})
	_ = rv.v.RegisterValidation("ref", func(fl validator.FieldLevel) bool {
		if rv.refs == nil {
			return true
		}
		k, ok := refdata.ParseKind(fl.Param())
		return ok && rv.refs.Has(k, fl.Field().String())
	})
	return rv
}

// Normalize trims text fields and strips non-digits from the PIN code, as
// the form does while typing.
func Normalize(f Form) Form {
	f.FullName = strings.TrimSpace(f.FullName)
	f.AddressLine1 = strings.TrimSpace(f.AddressLine1)
	f.AddressLine2 = strings.TrimSpace(f.AddressLine2)
	f.CityCapital = strings.TrimSpace(f.CityCapital)
	f.State = strings.TrimSpace(f.State)
	f.PostalCode = nonDigitRe.ReplaceAllString(f.PostalCode, "")
	f.DateOfBirth = strings.TrimSpace(f.DateOfBirth)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Status = strings.TrimSpace(f.Status)
	f.OnboardingDate = strings.TrimSpace(f.OnboardingDate)
	f.Type = strings.TrimSpace(f.Type)
	return f
}

// Validate normalizes f and checks every field. All failures are reported
// together as a *domain.ValidationError keyed by form field name.
func (rv *Validator) Validate(f Form) (Form, error) {
	f = Normalize(f)
	err := rv.v.Struct(f)
	if err == nil {
		return f, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return f, err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe.Namespace())
		if _, seen := fields[name]; seen {
			continue
		}
		msg, ok := messages[name]
		if !ok {
			msg = fe.Error()
		}
		fields[name] = msg
	}
	return f, &domain.ValidationError{Fields: fields}
}

// fieldName maps "Form.cityMulti[1]" to "cityMulti".
func fieldName(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexByte(ns, '['); i >= 0 {
		ns = ns[:i]
	}
	return ns
}
