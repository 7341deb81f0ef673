package yaml

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	goyaml "gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/operate-first/acm-cluster-generator/pkg/ipnet"
)

// base64LineLength matches the MIME line length used for embedded binary data.
const base64LineLength = 76

// Renderer returns the text of the string scalar that represents v.
type Renderer func(v reflect.Value) string

// Renderers maps a Go type to the Renderer used for its values. The table is
// consulted before the generic reflection walk, for both values and pointers.
type Renderers map[reflect.Type]Renderer

// DefaultRenderers returns the renderers used by Marshal and MarshalAll.
func DefaultRenderers() Renderers {
	return Renderers{
		reflect.TypeOf(ipnet.IPv4Address{}): RenderStringer,
		reflect.TypeOf(ipnet.IPv4Network{}): RenderStringer,
		reflect.TypeOf(ipnet.URL{}):         RenderStringer,
		reflect.TypeOf([]byte(nil)):         RenderBinary,
		reflect.TypeOf(metav1.Time{}):       RenderTime,
	}
}

// RenderStringer renders a value through its String method.
func RenderStringer(v reflect.Value) string {
	return v.Interface().(fmt.Stringer).String()
}

// RenderBinary renders a byte slice as base64, broken into lines of 76
// characters, each terminated by a newline.
func RenderBinary(v reflect.Value) string {
	encoded := base64.StdEncoding.EncodeToString(v.Bytes())
	if encoded == "" {
		return ""
	}
	var b strings.Builder
	for len(encoded) > base64LineLength {
		b.WriteString(encoded[:base64LineLength])
		b.WriteByte('\n')
		encoded = encoded[base64LineLength:]
	}
	b.WriteString(encoded)
	b.WriteByte('\n')
	return b.String()
}

// RenderTime renders a metav1.Time in RFC 3339 form, as the API server does.
func RenderTime(v reflect.Value) string {
	return v.Interface().(metav1.Time).UTC().Format(time.RFC3339)
}

// Encoder turns Go values into YAML using their json struct tags.
//
// Unset values (nil pointers, maps, slices and interfaces) are always left out;
// fields tagged omitempty are also left out when they hold their zero value.
// Mapping keys are sorted and strings containing a line break are written as
// literal blocks.
type Encoder struct {
	renderers Renderers
}

// NewEncoder returns an Encoder using the given renderer table.
func NewEncoder(renderers Renderers) *Encoder {
	return &Encoder{renderers: renderers}
}

var defaultEncoder = NewEncoder(DefaultRenderers())

// Marshal encodes obj as a single YAML document using the default renderers.
func Marshal(obj interface{}) ([]byte, error) {
	return defaultEncoder.Marshal(obj)
}

// MarshalAll encodes objs as a multi-document YAML stream using the default
// renderers.
func MarshalAll(objs ...interface{}) ([]byte, error) {
	return defaultEncoder.MarshalAll(objs...)
}

// Marshal encodes obj as a single YAML document.
func (e *Encoder) Marshal(obj interface{}) ([]byte, error) {
	return e.MarshalAll(obj)
}

// MarshalAll encodes objs as a multi-document YAML stream. Nothing is returned
// unless every document could be encoded.
func (e *Encoder) MarshalAll(objs ...interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := goyaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for i, obj := range objs {
		node, err := e.Node(obj)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot encode document %d", i)
		}
		if err := enc.Encode(node); err != nil {
			return nil, errors.Wrapf(err, "cannot encode document %d", i)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Node converts obj into a YAML node tree.
func (e *Encoder) Node(obj interface{}) (*goyaml.Node, error) {
	node, err := e.node(reflect.ValueOf(obj))
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, errors.New("cannot encode an unset value")
	}
	return node, nil
}

// node returns nil for unset values.
func (e *Encoder) node(v reflect.Value) (*goyaml.Node, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if render, ok := e.renderers[v.Type()]; ok {
		if isNil(v) {
			return nil, nil
		}
		return StringNode(render(v)), nil
	}

	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return e.node(v.Elem())
	case reflect.Struct:
		return e.structNode(v)
	case reflect.Map:
		if v.IsNil() {
			return nil, nil
		}
		return e.mapNode(v)
	case reflect.Slice:
		if v.IsNil() {
			return nil, nil
		}
		return e.sequenceNode(v)
	case reflect.Array:
		return e.sequenceNode(v)
	case reflect.String:
		return StringNode(v.String()), nil
	case reflect.Bool:
		return scalarNode("!!bool", strconv.FormatBool(v.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalarNode("!!int", strconv.FormatInt(v.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scalarNode("!!int", strconv.FormatUint(v.Uint(), 10)), nil
	case reflect.Float32, reflect.Float64:
		return scalarNode("!!float", strconv.FormatFloat(v.Float(), 'g', -1, v.Type().Bits())), nil
	}
	return nil, errors.Errorf("cannot encode value of type %s", v.Type())
}

func (e *Encoder) structNode(v reflect.Value) (*goyaml.Node, error) {
	entries := map[string]*goyaml.Node{}
	if err := e.structFields(v, entries); err != nil {
		return nil, err
	}
	return mappingNode(entries), nil
}

func (e *Encoder) structFields(v reflect.Value, entries map[string]*goyaml.Node) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, omitEmpty, inline := parseTag(f)
		if name == "-" {
			continue
		}
		fv := v.Field(i)

		if inline {
			for fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					break
				}
				fv = fv.Elem()
			}
			if fv.Kind() == reflect.Struct {
				if err := e.structFields(fv, entries); err != nil {
					return err
				}
			}
			continue
		}

		if omitEmpty && fv.IsZero() {
			continue
		}
		node, err := e.node(fv)
		if err != nil {
			return errors.Wrapf(err, "field %s", name)
		}
		if node == nil {
			continue
		}
		entries[name] = node
	}
	return nil
}

func (e *Encoder) mapNode(v reflect.Value) (*goyaml.Node, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, errors.Errorf("cannot encode map with %s keys", v.Type().Key())
	}
	entries := map[string]*goyaml.Node{}
	iter := v.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		node, err := e.node(iter.Value())
		if err != nil {
			return nil, errors.Wrapf(err, "key %s", key)
		}
		if node == nil {
			continue
		}
		entries[key] = node
	}
	return mappingNode(entries), nil
}

func (e *Encoder) sequenceNode(v reflect.Value) (*goyaml.Node, error) {
	seq := &goyaml.Node{Kind: goyaml.SequenceNode, Tag: "!!seq"}
	for i := 0; i < v.Len(); i++ {
		node, err := e.node(v.Index(i))
		if err != nil {
			return nil, errors.Wrapf(err, "index %d", i)
		}
		if node == nil {
			return nil, errors.Errorf("index %d is unset", i)
		}
		seq.Content = append(seq.Content, node)
	}
	return seq, nil
}

// StringNode returns a string scalar, in literal block style when s spans more
// than one line.
func StringNode(s string) *goyaml.Node {
	node := scalarNode("!!str", s)
	if strings.Contains(s, "\n") {
		node.Style = goyaml.LiteralStyle
	}
	return node
}

func scalarNode(tag, value string) *goyaml.Node {
	return &goyaml.Node{Kind: goyaml.ScalarNode, Tag: tag, Value: value}
}

func mappingNode(entries map[string]*goyaml.Node) *goyaml.Node {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := &goyaml.Node{Kind: goyaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		m.Content = append(m.Content, scalarNode("!!str", k), entries[k])
	}
	return m
}

// parseTag reads the json tag of f. Embedded structs without a name, or tagged
// ",inline", are flattened into their parent.
func parseTag(f reflect.StructField) (name string, omitEmpty, inline bool) {
	tag := f.Tag.Get("json")
	parts := strings.Split(tag, ",")
	name = parts[0]
	for _, opt := range parts[1:] {
		switch opt {
		case "omitempty":
			omitEmpty = true
		case "inline":
			inline = true
		}
	}
	if f.Anonymous && name == "" {
		inline = true
	}
	if name == "" {
		name = f.Name
	}
	return name, omitEmpty, inline
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return v.IsNil()
	}
	return false
}
