package helper

import (
	"reflect"
	"strconv"

	"github.com/samber/lo"
)

// GetMapInt64Value reads an integer amount out of a decoded JSON payload.
// JSON numbers arrive as float64; strings that parse as integers are
// accepted too.
func GetMapInt64Value(payload map[string]interface{}, key string) *int64 {
	v := int64(0)
	value, exists := payload[key]
	if !exists || value == nil {
		return &v
	}

	aValue := reflect.ValueOf(value)
	switch aValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v = aValue.Int()
	case reflect.Float32, reflect.Float64:
		v = int64(aValue.Float())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v = int64(aValue.Uint())
	case reflect.String:
		parsed, err := strconv.ParseInt(aValue.String(), 10, 64)
		return lo.Ternary(err == nil, &parsed, &v)
	default:
		return &v
	}

	return &v
}
