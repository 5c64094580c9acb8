package validation

import "github.com/go-playground/validator/v10"

// validateMapStringString requires a non-empty map with non-empty keys and
// values.
func validateMapStringString(fl validator.FieldLevel) bool {
	m, ok := fl.Field().Interface().(map[string]string)
	if !ok || len(m) == 0 {
		return false
	}

	for k, v := range m {
		if k == "" || v == "" {
			return false
		}
	}

	return true
}

// validateNestedMap requires a non-empty map whose values recursively contain
// only non-empty strings, non-negative numbers, booleans, arrays, and maps of
// the same shape.
func validateNestedMap(fl validator.FieldLevel) bool {
	m, ok := fl.Field().Interface().(map[string]interface{})
	if !ok || len(m) == 0 {
		return false
	}

	for k, v := range m {
		if k == "" || !validMapValue(v, true) {
			return false
		}
	}

	return true
}

func validMapValue(v interface{}, allowNil bool) bool {
	switch val := v.(type) {
	case string:
		return val != ""
	case float64:
		return val >= 0
	case bool:
		return true
	case []interface{}:
		for _, elem := range val {
			if !validMapValue(elem, false) {
				return false
			}
		}
		return true
	case map[string]interface{}:
		for k, nested := range val {
			if k == "" || !validMapValue(nested, true) {
				return false
			}
		}
		return true
	case nil:
		return allowNil
	default:
		return false
	}
}
