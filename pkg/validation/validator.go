package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PhonePattern matches Yemeni mobile numbers in international form
var PhonePattern = regexp.MustCompile(`^\+967\d{8,9}$`)

var (
	carTypes          = []string{"sedan", "suv", "pickup"}
	bookingStatuses   = []string{"confirmed", "on_the_way", "started", "finished", "postponed", "canceled"}
	discountTypes     = []string{"percentage", "fixed"}
	fleetLeadStatuses = []string{"new", "contacted", "trial", "converted", "rejected"}
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Validator returns the shared validator with the custom tags registered
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.SetTagName("binding")
		registerCustomValidations(validate)
	})
	return validate
}

// RegisterGinValidations adds the custom tags to gin's binding engine so
// ShouldBindJSON enforces them. Call once at startup.
func RegisterGinValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding engine is not go-playground/validator")
	}
	registerCustomValidations(v)
	return nil
}

func registerCustomValidations(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("phone_ye", validatePhone)
	_ = v.RegisterValidation("car_type", oneOf(carTypes))
	_ = v.RegisterValidation("booking_status", oneOf(bookingStatuses))
	_ = v.RegisterValidation("discount_type", oneOf(discountTypes))
	_ = v.RegisterValidation("fleet_lead_status", oneOf(fleetLeadStatuses))
}

// jsonFieldName reports fields by their JSON name so error keys match the payload
func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// ValidateStruct validates s and converts field errors into a ValidationError
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return NewValidationError(verrs)
	}
	return err
}

// IsValidPhone reports whether phone is a +967 mobile number
func IsValidPhone(phone string) bool {
	return PhonePattern.MatchString(phone)
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsValidPhone(fl.Field().String())
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}
