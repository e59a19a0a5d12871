package morph

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// Normalize converts a value into the decoded-JSON universe the classifier
// understands: nil, bool, float64, string, []any and map[string]any.
// Go numeric kinds and json.Number become float64; typed slices and
// string-keyed maps are converted element by element. The input is never
// modified; containers are copied only when a conversion is needed.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, bool, float64, string:
		return v
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i, e := range x {
			if n := Normalize(e); !sameScalar(n, e) {
				out := make([]any, len(x))
				copy(out, x[:i])
				out[i] = n
				for j := i + 1; j < len(x); j++ {
					out[j] = Normalize(x[j])
				}
				return out
			}
		}
		return x
	case map[string]any:
		for _, e := range x {
			if n := Normalize(e); !sameScalar(n, e) {
				out := make(map[string]any, len(x))
				for k, e2 := range x {
					out[k] = Normalize(e2)
				}
				return out
			}
		}
		return x
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	}
	return normalizeReflect(v)
}

// sameScalar reports whether Normalize left e untouched. Containers always
// compare unequal so nested conversions are detected.
func sameScalar(n, e any) bool {
	switch e.(type) {
	case nil, bool, float64, string:
		return true
	case []any, map[string]any:
		return reflect.ValueOf(n).Pointer() == reflect.ValueOf(e).Pointer()
	}
	return false
}

func normalizeReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	// Structs and other values go through JSON so their exported fields
	// are seen the same way the store would have delivered them.
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}

// IsEmpty reports whether v renders as nothing: nil, blank strings, and
// empty arrays or objects.
func IsEmpty(v any) bool {
	switch x := Normalize(v).(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}

// Float extracts a numeric value. Numeric strings are accepted so values
// such as "12.5" coming from loosely typed sources still chart.
func Float(v any) (float64, bool) {
	switch x := Normalize(v).(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String returns a display string for scalars. Whole numbers print without
// a decimal part.
func String(v any) string {
	switch x := Normalize(v).(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return FormatNumber(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// FormatNumber formats f with at most two decimals and no trailing zeros.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// Field returns the first present key of obj among names, matched case-insensitively.
func Field(obj map[string]any, names ...string) (any, bool) {
	for _, n := range names {
		if v, ok := obj[n]; ok {
			return v, true
		}
	}
	for k, v := range obj {
		lk := strings.ToLower(k)
		for _, n := range names {
			if lk == n {
				return v, true
			}
		}
	}
	return nil, false
}

// HasKeys reports whether obj carries at least one of each group of key
// alternatives. HasKeys(o, []string{"lat"}, []string{"lng", "lon"}) needs
// lat and one of lng/lon.
func HasKeys(obj map[string]any, groups ...[]string) bool {
	for _, g := range groups {
		if _, ok := Field(obj, g...); !ok {
			return false
		}
	}
	return true
}
