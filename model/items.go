package model

import (
	"sort"
	"strings"
	"time"

	"github.com/viant/toolbox"
)

// Items represents a multi-valued attribute map; names are case-insensitive.
type Items map[string][]interface{}

// Has returns true if the item exists
func (i Items) Has(name string) bool {
	_, ok := i[strings.ToLower(name)]
	return ok
}

// Values returns a copy of item values
func (i Items) Values(name string) []interface{} {
	values, ok := i[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return cloneSlice(values)
}

// Value returns the first item value or nil
func (i Items) Value(name string) interface{} {
	values := i[strings.ToLower(name)]
	if len(values) == 0 {
		return nil
	}
	return values[0]
}

// String returns the first value as string
func (i Items) String(name string) string {
	value := i.Value(name)
	if value == nil {
		return ""
	}
	return toolbox.AsString(value)
}

// Strings returns all values as strings
func (i Items) Strings(name string) []string {
	values := i[strings.ToLower(name)]
	ret := make([]string, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		ret = append(ret, toolbox.AsString(value))
	}
	return ret
}

// Int returns the first value as int, 0 when missing or not numeric
func (i Items) Int(name string) int {
	value := i.Value(name)
	if value == nil {
		return 0
	}
	if text, ok := value.(string); ok {
		text = strings.TrimSpace(text)
		if text == "" {
			return 0
		}
		value = text
	}
	return toolbox.AsInt(value)
}

// Ints returns all numeric values, zero values are skipped
func (i Items) Ints(name string) []int {
	values := i[strings.ToLower(name)]
	ret := make([]int, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		if v := toolbox.AsInt(value); v != 0 {
			ret = append(ret, v)
		}
	}
	return ret
}

// Bool returns the first value as bool
func (i Items) Bool(name string) bool {
	value := i.Value(name)
	if value == nil {
		return false
	}
	return toolbox.AsBoolean(value)
}

// Float returns the first value as float64
func (i Items) Float(name string) float64 {
	value := i.Value(name)
	if value == nil {
		return 0
	}
	return toolbox.AsFloat(value)
}

// Time returns the first value as time or zero time
func (i Items) Time(name string) time.Time {
	switch actual := i.Value(name).(type) {
	case time.Time:
		return actual
	case *time.Time:
		if actual != nil {
			return *actual
		}
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, actual); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// Set replaces item values
func (i Items) Set(name string, values ...interface{}) {
	if len(values) == 1 {
		if list, ok := values[0].([]interface{}); ok {
			values = list
		}
	}
	i[strings.ToLower(name)] = cloneSlice(values)
}

// Append appends values to an item
func (i Items) Append(name string, values ...interface{}) {
	key := strings.ToLower(name)
	i[key] = append(i[key], cloneSlice(values)...)
}

// Remove removes an item
func (i Items) Remove(name string) {
	delete(i, strings.ToLower(name))
}

// Names returns sorted item names
func (i Items) Names() []string {
	ret := make([]string, 0, len(i))
	for name := range i {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

// Clone returns a deep copy
func (i Items) Clone() Items {
	if i == nil {
		return nil
	}
	ret := make(Items, len(i))
	for k, v := range i {
		ret[k] = cloneSlice(v)
	}
	return ret
}

// Map returns item values keyed by name, single values are unwrapped
func (i Items) Map() map[string]interface{} {
	ret := make(map[string]interface{}, len(i))
	for k, v := range i {
		switch len(v) {
		case 0:
			ret[k] = nil
		case 1:
			ret[k] = cloneValue(v[0])
		default:
			ret[k] = cloneSlice(v)
		}
	}
	return ret
}

func cloneSlice(values []interface{}) []interface{} {
	if values == nil {
		return nil
	}
	ret := make([]interface{}, len(values))
	for i, v := range values {
		ret[i] = cloneValue(v)
	}
	return ret
}

func cloneValue(value interface{}) interface{} {
	switch actual := value.(type) {
	case []interface{}:
		return cloneSlice(actual)
	case []string:
		return append([]string{}, actual...)
	case []int:
		return append([]int{}, actual...)
	case map[string]interface{}:
		ret := make(map[string]interface{}, len(actual))
		for k, v := range actual {
			ret[k] = cloneValue(v)
		}
		return ret
	case map[string]string:
		ret := make(map[string]string, len(actual))
		for k, v := range actual {
			ret[k] = v
		}
		return ret
	case Items:
		return actual.Clone()
	}
	return value
}
