package yaml

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Decode converts a YAML or JSON document into a generic tree of
// map[string]interface{}, []interface{}, string, bool and json.Number values.
// Numbers are kept as json.Number so that integers survive untouched.
func Decode(ba []byte) (interface{}, error) {
	if len(bytes.TrimSpace(ba)) == 0 {
		return nil, errors.New("document is empty")
	}
	var iface interface{}
	if err := yaml.Unmarshal(ba, &iface, useNumber); err != nil {
		return nil, err
	}
	return iface, nil
}

// DecodeObject is like Decode but requires the document to be a mapping.
func DecodeObject(ba []byte) (map[string]interface{}, error) {
	iface, err := Decode(ba)
	if err != nil {
		return nil, err
	}
	obj, ok := iface.(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("document must be a mapping, got %T", iface)
	}
	return obj, nil
}

func useNumber(d *json.Decoder) *json.Decoder {
	d.UseNumber()
	return d
}
