package helper

import (
	"encoding/json"
)

// JSONToByte marshals any payload for the wire; callers treat a failure as a
// non-serializable message.
func JSONToByte(payload any) ([]byte, error) {
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return jsonBytes, nil
}
