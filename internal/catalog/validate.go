package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"catalog-service/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// maxCount bounds stock and sold so they fit an int on every platform.
const maxCount = math.MaxInt32

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so errors match the request payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RequireFields checks that every listed top-level field is present and
// truthy. The first missing field short-circuits.
func RequireFields(body map[string]any, fields []string) error {
	for _, field := range fields {
		if !truthy(body[field]) {
			return inputError(field, field+" is required")
		}
	}
	return nil
}

// ResolvePrice applies the payment type rules: free products are always
// priced at zero, paid products need a positive price.
func ResolvePrice(paymentType string, price any) (float64, error) {
	switch paymentType {
	case model.PaymentFree:
		return 0, nil
	case model.PaymentPaid:
		n, ok := toNumber(price)
		if !ok || n <= 0 {
			return 0, inputError("price", "price must be a positive number for paid products")
		}
		return n, nil
	default:
		return 0, inputError("paymentType", `paymentType must be "free" or "paid"`)
	}
}

// ParseCount validates a non-negative integer field such as stock or sold.
// Only JSON numbers are accepted.
func ParseCount(field string, v any) (int, error) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case int:
		n = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, inputError(field, field+" must be a number")
		}
		n = f
	default:
		return 0, inputError(field, field+" must be a number")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n < 0 || n != math.Trunc(n) {
		return 0, inputError(field, field+" must be a non-negative integer")
	}
	if n > maxCount {
		return 0, inputError(field, fmt.Sprintf("%s must be at most %d", field, maxCount))
	}
	return int(n), nil
}

// ValidateTags rejects the write when a kept tag lacks a title or tagsId.
func ValidateTags(tags []model.Tag) error {
	for i, tag := range tags {
		if tag.Title == "" || tag.TagsID == "" {
			return inputError(fmt.Sprintf("tags[%d]", i), "each tag must have a title and tagsId")
		}
	}
	return nil
}

// ValidateCategory rejects a missing or incomplete category.
func ValidateCategory(c *model.Category) error {
	if c == nil || c.Title == "" || c.CategoryID == "" {
		return inputError("category", "category must have a title and categoryId")
	}
	return nil
}

// ValidateType rejects a missing or incomplete product type.
func ValidateType(t *model.Type) error {
	if t == nil || t.Title == "" || t.TypeID == "" {
		return inputError("type", "type must have a title and typeId")
	}
	return nil
}

// validateShape runs the struct tag rules of a record and reports the
// first violation.
func validateShape(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := fieldPath(fe.Namespace())
		return inputError(field, field+" "+FormatValidationError(fe))
	}
	return err
}

// FormatValidationError formats validation errors into user-friendly messages
func FormatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed validation on %s", fe.Tag())
	}
}

// fieldPath drops the struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	default:
		return true
	}
}

func toNumber(v any) (float64, bool) {
	var n float64
	switch val := v.(type) {
	case float64:
		n = val
	case int:
		n = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
