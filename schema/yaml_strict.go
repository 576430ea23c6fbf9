package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// pairs walks a mapping node, rejecting duplicate keys.
func pairs(n *yaml.Node, fn func(k, v *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", n.Line)
	}
	first := make(map[string][2]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if pos, dup := first[k.Value]; dup {
			return &DuplicateKeyError{Key: k.Value, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
		}
		first[k.Value] = [2]int{k.Line, k.Column}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

// plainValue converts a node into plain data: map[string]any, []any and
// scalars, with integers as int64.
func plainValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return plainValue(n.Content[0])
	case yaml.AliasNode:
		return plainValue(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		err := pairs(n, func(k, v *yaml.Node) error {
			val, err := plainValue(v)
			if err != nil {
				return err
			}
			m[k.Value] = val
			return nil
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := plainValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return scalarValue(n), nil
	}
	return nil, nil
}

func scalarValue(n *yaml.Node) any {
	switch n.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		if b, err := strconv.ParseBool(n.Value); err == nil {
			return b
		}
	case "!!int":
		// Use int64 to avoid overflow surprises
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i
		}
	case "!!float":
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil {
			return f
		}
	}
	return n.Value
}

// optionBag converts an options mapping keeping each key's scalar type, so
// that non-identifier keys can be told apart from unknown option names.
func optionBag(n *yaml.Node) (map[any]any, error) {
	bag := map[any]any{}
	err := pairs(n, func(k, v *yaml.Node) error {
		var key any = k.Value
		if k.Kind == yaml.ScalarNode {
			key = scalarValue(k)
		}
		val, err := plainValue(v)
		if err != nil {
			return err
		}
		bag[key] = val
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bag, nil
}
