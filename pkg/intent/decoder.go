package intent

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"k8s.io/apimachinery/pkg/util/validation/field"

	"github.com/operate-first/acm-cluster-generator/pkg/ipnet"
)

// decoder converts fields of a generic tree into typed values, recording one
// field.Error for every field that is missing or malformed.
type decoder struct {
	errs field.ErrorList
}

// lookup returns the value stored under key. A key holding null is reported as absent.
func lookup(obj map[string]interface{}, key string) (interface{}, bool) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (d *decoder) required(obj map[string]interface{}, fldPath *field.Path, key string) (interface{}, bool) {
	v, ok := lookup(obj, key)
	if !ok {
		d.errs = append(d.errs, field.Required(fldPath.Child(key), ""))
	}
	return v, ok
}

func (d *decoder) object(obj map[string]interface{}, fldPath *field.Path, key string) (map[string]interface{}, bool) {
	v, ok := d.required(obj, fldPath, key)
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		d.errs = append(d.errs, field.TypeInvalid(fldPath.Child(key), v, "must be an object"))
		return nil, false
	}
	return m, true
}

func (d *decoder) list(obj map[string]interface{}, fldPath *field.Path, key string) ([]interface{}, bool) {
	v, ok := d.required(obj, fldPath, key)
	if !ok {
		return nil, false
	}
	l, ok := v.([]interface{})
	if !ok {
		d.errs = append(d.errs, field.TypeInvalid(fldPath.Child(key), v, "must be a list"))
		return nil, false
	}
	return l, true
}

func (d *decoder) item(v interface{}, fldPath *field.Path) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	if !ok {
		d.errs = append(d.errs, field.TypeInvalid(fldPath, v, "must be an object"))
		return nil, false
	}
	return m, true
}

func (d *decoder) str(obj map[string]interface{}, fldPath *field.Path, key string) string {
	v, ok := d.required(obj, fldPath, key)
	if !ok {
		return ""
	}
	return d.toString(v, fldPath.Child(key))
}

// nonEmptyString is like str but also reports an empty string as missing.
func (d *decoder) nonEmptyString(obj map[string]interface{}, fldPath *field.Path, key string) string {
	v, ok := d.required(obj, fldPath, key)
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok && s == "" {
		d.errs = append(d.errs, field.Required(fldPath.Child(key), "must not be empty"))
		return ""
	}
	return d.toString(v, fldPath.Child(key))
}

func (d *decoder) stringOrDefault(obj map[string]interface{}, fldPath *field.Path, key, def string) string {
	v, ok := lookup(obj, key)
	if !ok {
		return def
	}
	return d.toString(v, fldPath.Child(key))
}

func (d *decoder) optionalString(obj map[string]interface{}, fldPath *field.Path, key string) *string {
	v, ok := lookup(obj, key)
	if !ok {
		return nil
	}
	s := d.toString(v, fldPath.Child(key))
	return &s
}

// toString accepts strings and numbers; numbers keep their literal text.
func (d *decoder) toString(v interface{}, fldPath *field.Path) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	}
	d.errs = append(d.errs, field.TypeInvalid(fldPath, v, "must be a string"))
	return ""
}

func (d *decoder) stringList(obj map[string]interface{}, fldPath *field.Path, key string) []string {
	l, ok := d.list(obj, fldPath, key)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(l))
	for i, v := range l {
		if v == nil {
			d.errs = append(d.errs, field.Required(fldPath.Child(key).Index(i), ""))
			continue
		}
		out = append(out, d.toString(v, fldPath.Child(key).Index(i)))
	}
	return out
}

func (d *decoder) boolOrDefault(obj map[string]interface{}, fldPath *field.Path, key string, def bool) bool {
	if b := d.optionalBool(obj, fldPath, key); b != nil {
		return *b
	}
	return def
}

func (d *decoder) optionalBool(obj map[string]interface{}, fldPath *field.Path, key string) *bool {
	v, ok := lookup(obj, key)
	if !ok {
		return nil
	}
	b, err := toBool(v)
	if err != nil {
		d.errs = append(d.errs, field.Invalid(fldPath.Child(key), v, err.Error()))
		return nil
	}
	return &b
}

// toBool accepts booleans, the numbers 0 and 1, and strings understood by
// strconv.ParseBool.
func toBool(v interface{}) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case json.Number:
		switch b.String() {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed, nil
		}
	}
	return false, fmt.Errorf("must be a boolean")
}

func (d *decoder) optionalInt32(obj map[string]interface{}, fldPath *field.Path, key string) *int32 {
	v, ok := lookup(obj, key)
	if !ok {
		return nil
	}
	n, ok := v.(json.Number)
	if !ok {
		d.errs = append(d.errs, field.TypeInvalid(fldPath.Child(key), v, "must be an integer"))
		return nil
	}
	i, err := n.Int64()
	if err != nil || i < math.MinInt32 || i > math.MaxInt32 {
		d.errs = append(d.errs, field.Invalid(fldPath.Child(key), v, "must be a 32-bit integer"))
		return nil
	}
	i32 := int32(i)
	return &i32
}

func (d *decoder) ipv4Address(obj map[string]interface{}, fldPath *field.Path, key string) ipnet.IPv4Address {
	s, ok := d.scalarString(obj, fldPath, key)
	if !ok {
		return ipnet.IPv4Address{}
	}
	a, err := ipnet.ParseIPv4Address(s)
	if err != nil {
		d.errs = append(d.errs, field.Invalid(fldPath.Child(key), s, "must be a valid IPv4 address"))
		return ipnet.IPv4Address{}
	}
	return *a
}

func (d *decoder) ipv4Network(obj map[string]interface{}, fldPath *field.Path, key string) ipnet.IPv4Network {
	s, ok := d.scalarString(obj, fldPath, key)
	if !ok {
		return ipnet.IPv4Network{}
	}
	return d.toIPv4Network(s, fldPath.Child(key))
}

func (d *decoder) toIPv4Network(s string, fldPath *field.Path) ipnet.IPv4Network {
	n, err := ipnet.ParseIPv4Network(s)
	if err != nil {
		d.errs = append(d.errs, field.Invalid(fldPath, s, fmt.Sprintf("must be a valid IPv4 network: %v", err)))
		return ipnet.IPv4Network{}
	}
	return *n
}

func (d *decoder) ipv4NetworkList(obj map[string]interface{}, fldPath *field.Path, key string) []ipnet.IPv4Network {
	l, ok := d.list(obj, fldPath, key)
	if !ok {
		return nil
	}
	out := make([]ipnet.IPv4Network, 0, len(l))
	for i, v := range l {
		idxPath := fldPath.Child(key).Index(i)
		s, ok := v.(string)
		if !ok {
			d.errs = append(d.errs, field.TypeInvalid(idxPath, v, "must be a string"))
			continue
		}
		out = append(out, d.toIPv4Network(s, idxPath))
	}
	return out
}

func (d *decoder) url(obj map[string]interface{}, fldPath *field.Path, key string) ipnet.URL {
	s, ok := d.scalarString(obj, fldPath, key)
	if !ok {
		return ipnet.URL{}
	}
	u, err := ipnet.ParseURL(s)
	if err != nil {
		d.errs = append(d.errs, field.Invalid(fldPath.Child(key), s, fmt.Sprintf("must be an absolute URL: %v", err)))
		return ipnet.URL{}
	}
	return *u
}

// scalarString returns a required field that must be written as a string.
func (d *decoder) scalarString(obj map[string]interface{}, fldPath *field.Path, key string) (string, bool) {
	v, ok := d.required(obj, fldPath, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		d.errs = append(d.errs, field.TypeInvalid(fldPath.Child(key), v, "must be a string"))
		return "", false
	}
	return s, true
}
