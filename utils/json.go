package utils

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// ToJSON marshals a value into a JSON column, falling back to an empty
// array on marshal failure.
func ToJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON("[]")
	}
	return datatypes.JSON(b)
}
