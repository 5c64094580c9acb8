package helper

import (
	"fmt"
	"time"
)

// GetMapDateTimeValue reads an RFC3339 timestamp out of a decoded JSON
// payload. Missing or unparseable values yield nil.
func GetMapDateTimeValue(payload map[string]interface{}, key string) *time.Time {
	value, exists := payload[key]
	if !exists || value == nil {
		return nil
	}
	parsedTime, err := time.Parse(time.RFC3339, fmt.Sprintf("%v", value))
	if err != nil {
		return nil
	}
	return &parsedTime
}
