package acroform

import (
	"fmt"
	"strconv"
	"strings"
)

// Check is a checkbox value with an optional export name override. Without
// an override the export name is inferred from the widget's appearance
// states.
type Check struct {
	On     bool   `json:"on" yaml:"on"`
	Export string `json:"export,omitempty" yaml:"export,omitempty"`
}

// textValue converts application values for text, combo and radio fields
func textValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case fmt.Stringer:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	}
	return "", false
}

// checkValue converts application values for checkbox fields
func checkValue(value interface{}) (Check, bool) {
	switch v := value.(type) {
	case bool:
		return Check{On: v}, true
	case Check:
		return v, true
	case *Check:
		if v == nil {
			return Check{}, false
		}
		return *v, true
	case string:
		on, ok := parseBool(v)
		return Check{On: on}, ok
	case map[string]interface{}:
		return checkFromMap(v)
	case Record:
		return checkFromMap(v)
	}
	return Check{}, false
}

func checkFromMap(m map[string]interface{}) (Check, bool) {
	raw, found := m["value"]
	if !found {
		raw, found = m["on"]
	}
	if !found {
		return Check{}, false
	}

	var check Check
	switch v := raw.(type) {
	case bool:
		check.On = v
	case string:
		on, ok := parseBool(v)
		if !ok {
			return Check{}, false
		}
		check.On = on
	default:
		return Check{}, false
	}

	if export, ok := m["export"]; ok {
		s, ok := export.(string)
		if !ok {
			return Check{}, false
		}
		check.Export = s
	}
	return check, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on", "x", "checked":
		return true, true
	case "no", "n", "off", "", "unchecked":
		return false, true
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, false
	}
	return b, true
}

// listValue converts application values for list fields
func listValue(value interface{}) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case string:
		return []string{v}, true
	case []interface{}:
		result := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := textValue(item)
			if !ok {
				return nil, false
			}
			result = append(result, s)
		}
		return result, true
	}
	return nil, false
}
