package router

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Parameter segments may carry a type, as in ":id:int". A value that does
// not parse as its type makes the segment fail to match, so matching moves
// on to the next sibling.
func knownParamType(paramType string) bool {
	switch paramType {
	case "string", "", "int", "uint", "uuid":
		return true
	}
	return false
}

// ValidateParam validates a parameter value against its declared type.
func ValidateParam(value, paramType string) error {
	switch paramType {
	case "int":
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
	case "uint":
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
	case "uuid":
		if err := uuid.Validate(value); err != nil {
			return fmt.Errorf("invalid UUID: %s", value)
		}
	}
	return nil
}
