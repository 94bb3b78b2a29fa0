package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/stockledger-backend/pkg/errors"
)

const (
	// MoneyPlaces and MoneyDigits mirror numeric(10,2).
	MoneyPlaces = 2
	MoneyDigits = 10
)

var maxMoney = decimal.New(1, MoneyDigits-MoneyPlaces)

var validate = newValidator()

// FieldError is one failed constraint, keyed by column name.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(columnName)
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if id, ok := field.Interface().(uuid.UUID); ok && id != uuid.Nil {
			return id.String()
		}
		return ""
	}, uuid.UUID{})
	_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, ok := decimalFromField(fl.Field())
		return ok && d.Equal(d.Round(MoneyPlaces)) && d.Abs().LessThan(maxMoney)
	})
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		d, ok := decimalFromField(fl.Field())
		return ok && !d.IsNegative()
	})
	return v
}

// columnName reports validation failures under the gorm column name.
func columnName(f reflect.StructField) string {
	for _, part := range strings.Split(f.Tag.Get("gorm"), ";") {
		if name, ok := strings.CutPrefix(part, "column:"); ok {
			return name
		}
	}
	return f.Name
}

func decimalFromField(field reflect.Value) (decimal.Decimal, bool) {
	if field.Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// checkFields runs every struct constraint and returns one FieldError per failure.
func checkFields(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	var combined error
	for _, fe := range errs {
		combined = multierr.Append(combined, &FieldError{Field: fe.Field(), Message: constraintMessage(fe)})
	}
	return combined
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "money":
		return fmt.Sprintf("must have at most %d digits and %d decimal places", MoneyDigits, MoneyPlaces)
	case "nonnegative":
		return "must not be negative"
	}
	return "is invalid"
}

// toValidationError folds the collected failures into a single validation error.
// A lone failure keeps its message verbatim so callers see e.g. the
// insufficiency text unchanged.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	errs := multierr.Errors(err)
	details := map[string]string{}
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		var fe *FieldError
		if errors.As(e, &fe) {
			if prev, ok := details[fe.Field]; ok {
				details[fe.Field] = prev + "; " + fe.Message
			} else {
				details[fe.Field] = fe.Message
			}
			messages = append(messages, fe.Error())
			continue
		}
		var typed *pkgerrors.Error
		if errors.As(e, &typed) {
			messages = append(messages, typed.Message())
			if field, ok := typed.Details().(map[string]string); ok {
				for k, v := range field {
					details[k] = v
				}
			}
			continue
		}
		messages = append(messages, e.Error())
	}

	message := messages[0]
	if len(messages) > 1 {
		sort.Strings(messages)
		message = strings.Join(messages, "; ")
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message).WithDetails(details)
}

// IsValidationError reports whether err was raised by the ledger validation pass.
func IsValidationError(err error) bool {
	return pkgerrors.IsCode(err, pkgerrors.CodeValidation)
}
