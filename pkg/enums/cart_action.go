package enums

import "fmt"

// CartAction names a quantity mutation on an existing cart row.
type CartAction string

const (
	CartActionIncrease CartAction = "increase"
	CartActionDecrease CartAction = "decrease"
)

var validCartActions = []CartAction{
	CartActionIncrease,
	CartActionDecrease,
}

// String implements fmt.Stringer.
func (c CartAction) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartAction.
func (c CartAction) IsValid() bool {
	for _, candidate := range validCartActions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartAction converts raw input into a CartAction.
func ParseCartAction(value string) (CartAction, error) {
	for _, candidate := range validCartActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart action %q", value)
}
