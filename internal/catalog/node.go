package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// node is an order-preserving document tree. Mappings keep their key order;
// scalars are held as strings; sequences are kept only as opaque leaves.
type node struct {
	keys     []string
	children map[string]*node
	scalar   string
	mapping  bool
}

func (n *node) isMap() bool { return n != nil && n.mapping }

func (n *node) get(key string) *node {
	if !n.isMap() {
		return nil
	}
	return n.children[key]
}

func (n *node) set(key string, child *node) {
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = child
}

func newMapNode() *node {
	return &node{mapping: true, children: make(map[string]*node)}
}

func parseJSON(data []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, eris.New("json: trailing data after document")
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (*node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, eris.Wrap(err, "json: read token")
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			n := newMapNode()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, eris.Wrap(err, "json: read key")
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, eris.Errorf("json: expected string key, got %v", keyTok)
				}
				child, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				n.set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, eris.Wrap(err, "json: read closing brace")
			}
			return n, nil
		case '[':
			for dec.More() {
				if _, err := decodeJSONValue(dec); err != nil {
					return nil, err
				}
			}
			if _, err := dec.Token(); err != nil {
				return nil, eris.Wrap(err, "json: read closing bracket")
			}
			return &node{}, nil
		default:
			return nil, eris.Errorf("json: unexpected delimiter %v", v)
		}
	case nil:
		return &node{}, nil
	case string:
		return &node{scalar: v}, nil
	default:
		return &node{scalar: fmt.Sprint(v)}, nil
	}
}

func parseYAML(data []byte) (*node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "yaml: unmarshal")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, eris.New("yaml: empty document")
	}
	return convertYAML(doc.Content[0])
}

func convertYAML(y *yaml.Node) (*node, error) {
	switch y.Kind {
	case yaml.MappingNode:
		n := newMapNode()
		for i := 0; i+1 < len(y.Content); i += 2 {
			child, err := convertYAML(y.Content[i+1])
			if err != nil {
				return nil, err
			}
			n.set(y.Content[i].Value, child)
		}
		return n, nil
	case yaml.ScalarNode:
		return &node{scalar: y.Value}, nil
	case yaml.AliasNode:
		if y.Alias == nil {
			return nil, eris.New("yaml: dangling alias")
		}
		return convertYAML(y.Alias)
	default:
		return &node{}, nil
	}
}
