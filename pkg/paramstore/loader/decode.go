package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/randalmurphal/paramstore/pkg/paramstore"
	"gopkg.in/yaml.v3"
)

var sequenceType = reflect.TypeFor[[]any]()

// FromYAML parses a YAML mapping into a store. Nested mappings flatten to
// dotted keys in document order; scalars keep their YAML type.
func FromYAML(data []byte, opts ...Option) (*paramstore.Parameters, error) {
	cfg := newConfig(opts)
	p := paramstore.New(cfg.storeOpts...)
	if err := decodeYAML(data, p, ""); err != nil {
		return nil, err
	}
	return p, nil
}

// FromJSON parses a JSON object into a store. Nested objects flatten to
// dotted keys in document order. Integral numbers become integers.
func FromJSON(data []byte, opts ...Option) (*paramstore.Parameters, error) {
	cfg := newConfig(opts)
	p := paramstore.New(cfg.storeOpts...)
	if err := decodeJSON(data, p, ""); err != nil {
		return nil, err
	}
	return p, nil
}

// FromTOML parses a TOML document into a store. Tables flatten to dotted
// keys in sorted order. Dates and times become text.
func FromTOML(data []byte, opts ...Option) (*paramstore.Parameters, error) {
	cfg := newConfig(opts)
	p := paramstore.New(cfg.storeOpts...)
	if err := decodeTOML(data, p, ""); err != nil {
		return nil, err
	}
	return p, nil
}

// FromMap converts native Go values into a store. Nested map[string]any
// values flatten to dotted keys; keys are inserted in sorted order.
func FromMap(m map[string]any, opts ...Option) (*paramstore.Parameters, error) {
	cfg := newConfig(opts)
	p := paramstore.New(cfg.storeOpts...)
	if err := flattenMap(m, "", p, ""); err != nil {
		return nil, err
	}
	return p, nil
}

func decodeYAML(data []byte, p *paramstore.Parameters, source string) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 {
		return nil
	}

	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind == yaml.AliasNode {
		root = root.Alias
	}
	switch {
	case root.Kind == yaml.MappingNode:
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		return nil
	default:
		return errors.New("parse yaml: document root must be a mapping")
	}
	return flattenYAML(root, "", p, source)
}

func flattenYAML(n *yaml.Node, key string, p *paramstore.Parameters, source string) error {
	switch n.Kind {
	case yaml.AliasNode:
		return flattenYAML(n.Alias, key, p, source)

	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.ShortTag() == "!!merge" {
				if err := mergeYAML(v, key, p, source); err != nil {
					return err
				}
				continue
			}
			if k.Kind != yaml.ScalarNode {
				return fmt.Errorf("parse yaml: line %d: mapping keys must be scalars", k.Line)
			}
			if err := flattenYAML(v, joinKey(key, k.Value), p, source); err != nil {
				return err
			}
		}
		return nil

	case yaml.SequenceNode:
		return &paramstore.UnsupportedValueError{Key: key, Type: sequenceType}

	case yaml.ScalarNode:
		v, err := yamlScalar(n)
		if err != nil {
			return fmt.Errorf("parse yaml: parameter %q: %w", key, err)
		}
		p.SetFrom(key, v, source)
		return nil
	}
	return fmt.Errorf("parse yaml: line %d: unexpected node", n.Line)
}

// mergeYAML applies a "<<" merge key at the current level.
func mergeYAML(v *yaml.Node, key string, p *paramstore.Parameters, source string) error {
	if v.Kind == yaml.SequenceNode {
		for _, item := range v.Content {
			if err := flattenYAML(item, key, p, source); err != nil {
				return err
			}
		}
		return nil
	}
	return flattenYAML(v, key, p, source)
}

func yamlScalar(n *yaml.Node) (paramstore.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return paramstore.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return paramstore.Value{}, err
		}
		return paramstore.BoolValue(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return paramstore.IntValue(i), nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return paramstore.Value{}, err
		}
		return paramstore.DoubleValue(f), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return paramstore.Value{}, err
		}
		return paramstore.DoubleValue(f), nil
	default:
		return paramstore.TextValue(n.Value), nil
	}
}

func decodeJSON(data []byte, p *paramstore.Parameters, source string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("parse json: document root must be an object")
	}
	if err := flattenJSONObject(dec, "", p, source); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("parse json: unexpected data after document root")
	}
	return nil
}

// flattenJSONObject reads the members of an object whose '{' was consumed.
func flattenJSONObject(dec *json.Decoder, prefix string, p *paramstore.Parameters, source string) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("parse json: %w", err)
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("parse json: unexpected token %v", tok)
		}
		if err := flattenJSONValue(dec, joinKey(prefix, name), p, source); err != nil {
			return err
		}
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	return nil
}

func flattenJSONValue(dec *json.Decoder, key string, p *paramstore.Parameters, source string) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	var v paramstore.Value
	switch t := tok.(type) {
	case json.Delim:
		if t == '{' {
			return flattenJSONObject(dec, key, p, source)
		}
		return &paramstore.UnsupportedValueError{Key: key, Type: sequenceType}
	case json.Number:
		if v, err = paramstore.ValueOf(t); err != nil {
			return fmt.Errorf("parse json: parameter %q: %w", key, err)
		}
	case string:
		v = paramstore.TextValue(t)
	case bool:
		v = paramstore.BoolValue(t)
	case nil:
		v = paramstore.NullValue()
	default:
		return fmt.Errorf("parse json: unexpected token %v", tok)
	}
	p.SetFrom(key, v, source)
	return nil
}

func decodeTOML(data []byte, p *paramstore.Parameters, source string) error {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse toml: %w", err)
	}
	return flattenMap(m, "", p, source)
}

// flattenMap inserts m into p with sorted keys, descending into nested maps.
func flattenMap(m map[string]any, prefix string, p *paramstore.Parameters, source string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := joinKey(prefix, k)
		var v paramstore.Value
		switch val := m[k].(type) {
		case map[string]any:
			if err := flattenMap(val, key, p, source); err != nil {
				return err
			}
			continue
		case []any:
			return &paramstore.UnsupportedValueError{Key: key, Type: sequenceType}
		case time.Time:
			v = paramstore.TextValue(val.Format(time.RFC3339Nano))
		case toml.LocalDate:
			v = paramstore.TextValue(val.String())
		case toml.LocalTime:
			v = paramstore.TextValue(val.String())
		case toml.LocalDateTime:
			v = paramstore.TextValue(val.String())
		default:
			var err error
			if v, err = paramstore.ValueOf(val); err != nil {
				var unsupported *paramstore.UnsupportedValueError
				if errors.As(err, &unsupported) {
					unsupported.Key = key
					return unsupported
				}
				return fmt.Errorf("parameter %q: %w", key, err)
			}
		}
		p.SetFrom(key, v, source)
	}
	return nil
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
