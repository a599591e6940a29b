package uci

import (
	"fmt"
	"strconv"
	"strings"
)

// String returns the value of name, or defaultVal if the option is
// undeclared or empty.
func (r *Registry) String(name, defaultVal string) string {
	if v, ok := r.Get(name); ok && v != "" {
		return v
	}
	return defaultVal
}

// Int returns the integer value of name (spin options).
// If the option is undeclared or empty, it returns (0, false, nil).
// If the value is present but not an integer, it returns an error.
func (r *Registry) Int(name string) (int, bool, error) {
	v, ok := r.Get(name)
	if !ok || v == "" {
		return 0, false, nil
	}
	v = strings.TrimSpace(v)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, fmt.Errorf("option %s: %q is not a valid integer", name, v)
	}
	return n, true, nil
}

// Bool returns the boolean value of name (check options).
// If the option is undeclared or empty, it returns (false, false, nil).
// Truthy values: "true", "on", "1", "yes" (case-insensitive).
// Falsy values: "false", "off", "0", "no" (case-insensitive).
// Unrecognized values return an error.
func (r *Registry) Bool(name string) (bool, bool, error) {
	v, ok := r.Get(name)
	if !ok || v == "" {
		return false, false, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "yes":
		return true, true, nil
	case "false", "off", "0", "no":
		return false, true, nil
	default:
		return false, false, fmt.Errorf("option %s: %q is not a recognized boolean value", name, v)
	}
}
