// Package catalog loads the BLS OEWS reference code catalog.
package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Top-level keys of the reference document.
const (
	KeyAreas       = "area_codes"
	KeyOccupations = "occupation_codes"
	KeyDataTypes   = "datatype_codes"
)

// CodeSet is an ordered code → name mapping.
type CodeSet struct {
	codes []string
	names map[string]string
}

// NewCodeSet builds a CodeSet from parallel code/name slices.
func NewCodeSet(codes, names []string) *CodeSet {
	cs := &CodeSet{names: make(map[string]string, len(codes))}
	for i, c := range codes {
		if _, dup := cs.names[c]; dup {
			continue
		}
		cs.codes = append(cs.codes, c)
		if i < len(names) {
			cs.names[c] = names[i]
		} else {
			cs.names[c] = ""
		}
	}
	return cs
}

// Codes returns the codes in document order.
func (cs *CodeSet) Codes() []string {
	out := make([]string, len(cs.codes))
	copy(out, cs.codes)
	return out
}

// Name returns the human-readable name for code, or "" if unmapped.
func (cs *CodeSet) Name(code string) string {
	if cs == nil {
		return ""
	}
	return cs.names[code]
}

// Has reports whether code is in the set.
func (cs *CodeSet) Has(code string) bool {
	_, ok := cs.names[code]
	return ok
}

// Len returns the number of codes.
func (cs *CodeSet) Len() int { return len(cs.codes) }

// Subset returns a CodeSet restricted to codes, in the order given.
// An empty codes list returns the receiver unchanged.
func (cs *CodeSet) Subset(codes []string) (*CodeSet, error) {
	if len(codes) == 0 {
		return cs, nil
	}
	names := make([]string, len(codes))
	for i, c := range codes {
		if !cs.Has(c) {
			return nil, eris.Errorf("catalog: unknown code %q", c)
		}
		names[i] = cs.names[c]
	}
	return NewCodeSet(codes, names), nil
}

// Catalog is the immutable reference catalog. Build it once with Load and
// pass it to the components that need it.
type Catalog struct {
	root *node
}

// Load reads a reference document from path. JSON and YAML are supported.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: read %s", path)
	}

	var root *node
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		root, err = parseJSON(data)
	case ".yaml", ".yml":
		root, err = parseYAML(data)
	default:
		return nil, eris.Errorf("catalog: unsupported reference format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: parse %s", path)
	}

	return newCatalog(root)
}

func newCatalog(root *node) (*Catalog, error) {
	if root == nil || !root.isMap() {
		return nil, eris.New("catalog: reference document must be an object")
	}
	for _, key := range []string{KeyAreas, KeyOccupations, KeyDataTypes} {
		child := root.get(key)
		if child == nil {
			return nil, eris.Errorf("catalog: missing key %q", key)
		}
		if !child.isMap() {
			return nil, eris.Errorf("catalog: key %q must be an object", key)
		}
	}
	return &Catalog{root: root}, nil
}

// Areas returns the geography codes under area_codes.<areaType>.<group>.
func (c *Catalog) Areas(areaType, group string) (*CodeSet, error) {
	return c.codeSet(KeyAreas, areaType, group)
}

// Occupations returns the occupation codes under occupation_codes.<group>.
func (c *Catalog) Occupations(group string) (*CodeSet, error) {
	return c.codeSet(KeyOccupations, group)
}

// DataTypes returns the flat datatype_codes mapping.
func (c *Catalog) DataTypes() *CodeSet {
	cs, err := c.codeSet(KeyDataTypes)
	if err != nil {
		return NewCodeSet(nil, nil)
	}
	return cs
}

func (c *Catalog) codeSet(path ...string) (*CodeSet, error) {
	n := c.root
	for _, key := range path {
		n = n.get(key)
		if n == nil {
			return nil, eris.Errorf("catalog: missing key %q", strings.Join(path, "."))
		}
	}
	if !n.isMap() {
		return nil, eris.Errorf("catalog: %q is not a code mapping", strings.Join(path, "."))
	}

	codes := make([]string, 0, len(n.keys))
	names := make([]string, 0, len(n.keys))
	for _, k := range n.keys {
		codes = append(codes, k)
		names = append(names, n.children[k].scalar)
	}
	return NewCodeSet(codes, names), nil
}
