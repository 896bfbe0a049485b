package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Truthy converts a value to bool the way JavaScript does
func Truthy(v interface{}) bool {
	switch actual := v.(type) {
	case nil, undefined:
		return false
	case bool:
		return actual
	case string:
		return actual != ""
	case float32:
		return actual != 0 && !math.IsNaN(float64(actual))
	case float64:
		return actual != 0 && !math.IsNaN(actual)
	case []interface{}:
		return true
	}
	if isIntType(v) {
		return toInt(v) != 0
	}
	return true
}

func isNumber(v interface{}) bool {
	return isIntType(v) || isFloatType(v)
}

func isIntType(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isFloatType(v interface{}) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

func toInt(v interface{}) int {
	switch val := v.(type) {
	case int:
		return val
	case int8:
		return int(val)
	case int16:
		return int(val)
	case int32:
		return int(val)
	case int64:
		return int(val)
	case uint:
		return int(val)
	case uint8:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	case uint64:
		return int(val)
	case float32:
		return int(val)
	case float64:
		return int(val)
	case bool:
		if val {
			return 1
		}
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(val))
		return i
	}
	return 0
}

func toFloat64(v interface{}) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case nil:
		return 0
	case undefined:
		return math.NaN()
	}
	if isIntType(v) {
		return float64(toInt(v))
	}
	return math.NaN()
}

func performAddition(x, y interface{}) interface{} {
	_, xText := x.(string)
	_, yText := y.(string)
	if xText || yText {
		return stringify(x) + stringify(y)
	}
	if isIntType(x) && isIntType(y) {
		return toInt(x) + toInt(y)
	}
	return toFloat64(x) + toFloat64(y)
}

func performSubtraction(x, y interface{}) interface{} {
	if isIntType(x) && isIntType(y) {
		return toInt(x) - toInt(y)
	}
	return toFloat64(x) - toFloat64(y)
}

func performMultiplication(x, y interface{}) interface{} {
	if isIntType(x) && isIntType(y) {
		return toInt(x) * toInt(y)
	}
	return toFloat64(x) * toFloat64(y)
}

// performDivision follows IEEE 754: x/0 is +Inf or -Inf by the sign of x, 0/0 is NaN
func performDivision(x, y interface{}) interface{} {
	dividend, divisor := toFloat64(x), toFloat64(y)
	if divisor == 0 {
		switch {
		case dividend == 0 || math.IsNaN(dividend):
			return math.NaN()
		case (dividend < 0) != math.Signbit(divisor):
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	return dividend / divisor
}

func performModulo(x, y interface{}) interface{} {
	if isIntType(x) && isIntType(y) && toInt(y) != 0 {
		return toInt(x) % toInt(y)
	}
	divisor := toFloat64(y)
	if divisor == 0 {
		return math.NaN()
	}
	return math.Mod(toFloat64(x), divisor)
}

// compareValues returns -1, 0 or 1; ok is false when values are not comparable
func compareValues(x, y interface{}) (int, bool) {
	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok {
			return strings.Compare(xs, ys), true
		}
	}
	if xt, ok := x.(time.Time); ok {
		if yt, ok := y.(time.Time); ok {
			return xt.Compare(yt), true
		}
	}
	if isIntType(x) && isIntType(y) {
		xi, yi := toInt(x), toInt(y)
		switch {
		case xi < yi:
			return -1, true
		case xi > yi:
			return 1, true
		}
		return 0, true
	}
	xf, yf := toFloat64(x), toFloat64(y)
	if math.IsNaN(xf) || math.IsNaN(yf) {
		return 0, false
	}
	switch {
	case xf < yf:
		return -1, true
	case xf > yf:
		return 1, true
	}
	return 0, true
}

func looseEqual(x, y interface{}) bool {
	xNil := x == nil || x == Undefined
	yNil := y == nil || y == Undefined
	if xNil || yNil {
		return xNil && yNil
	}
	if xb, ok := x.(bool); ok {
		if yb, ok := y.(bool); ok {
			return xb == yb
		}
	}
	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok {
			return xs == ys
		}
	}
	if isNumber(x) || isNumber(y) {
		cmp, ok := compareValues(x, y)
		return ok && cmp == 0
	}
	return stringify(x) == stringify(y)
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = stringify(item)
		}
		return strings.Join(parts, ",")
	}
	if isIntType(v) {
		return strconv.Itoa(toInt(v))
	}
	return fmt.Sprintf("%v", v)
}
