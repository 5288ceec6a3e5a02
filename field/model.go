package field

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/reoring/pathstore/pvalue"
)

// Kind identifies the variant of a Model.
type Kind uint8

const (
	KindScalar Kind = iota
	KindSet
	KindRecord
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSet:
		return "set"
	case KindRecord:
		return "record"
	case KindDict:
		return "dict"
	}
	return "unknown"
}

// Model is one schema node. Models are configured while the schema is being
// built and must not be changed once registered under a parent.
type Model struct {
	kind     Kind
	required bool
	def      defaultProvider
	// parent is a non-owning back-reference, set once by Register.
	parent *Model

	// record
	fields *orderedmap.OrderedMap[string, *Model]
	shape  *pvalue.Shape

	// dict
	keyName  string
	item     *Model
	itemSelf bool
}

type defaultProvider struct {
	set   bool
	value any
	fn    func() any
}

// resolve returns the raw default, invoking fn when configured.
func (d defaultProvider) resolve() (any, bool) {
	switch {
	case !d.set:
		return nil, false
	case d.fn != nil:
		return d.fn(), true
	}
	return d.value, true
}

// Scalar returns a model for arbitrary JSON-like values.
func Scalar() *Model { return &Model{kind: KindScalar} }

// Set returns a model for persistent sets built from array-like input.
func Set() *Model { return &Model{kind: KindSet} }

// Dict returns a dynamic dictionary whose values are loaded by item.
// keyName is informational and names what the keys identify.
func Dict(keyName string, item *Model) *Model {
	return &Model{kind: KindDict, keyName: keyName, item: item}
}

// DictOfSelf returns a dynamic dictionary whose values are typed by the
// record that encloses the dictionary.
func DictOfSelf(keyName string) *Model {
	return &Model{kind: KindDict, keyName: keyName, itemSelf: true}
}

// Required marks the model as required within its parent record.
func (m *Model) Required() *Model {
	m.required = true
	return m
}

// Default sets a static default value. It is converted by the model's own
// loader each time it is applied.
func (m *Model) Default(v any) *Model {
	m.def = defaultProvider{set: true, value: v}
	return m
}

// DefaultFunc sets a default computed by fn each time it is applied.
func (m *Model) DefaultFunc(fn func() any) *Model {
	if fn == nil {
		m.def = defaultProvider{}
		return m
	}
	m.def = defaultProvider{set: true, fn: fn}
	return m
}

// EmptyDefault makes an absent Set default to the empty set, or an absent
// Dict default to the empty mapping. It has no effect on other kinds.
func (m *Model) EmptyDefault() *Model {
	switch m.kind {
	case KindSet:
		return m.DefaultFunc(func() any { return pvalue.NewSet() })
	case KindDict:
		return m.DefaultFunc(func() any { return pvalue.NewMap() })
	}
	return m
}

// Kind returns the variant of m.
func (m *Model) Kind() Kind { return m.kind }

// IsRequired reports whether m is required within its parent record.
func (m *Model) IsRequired() bool { return m.required }

// HasDefault reports whether a default provider is configured.
func (m *Model) HasDefault() bool { return m.def.set }

// Parent returns the enclosing Record or Dict model, or nil for a root.
func (m *Model) Parent() *Model { return m.parent }

// KeyName returns the informational key name of a Dict.
func (m *Model) KeyName() string { return m.keyName }

// IsSelfDict reports whether a Dict's items are typed by its enclosing record.
func (m *Model) IsSelfDict() bool { return m.kind == KindDict && m.itemSelf }

// Item returns the model used for a Dict's values. For self dictionaries this
// is the enclosing record, or nil before registration.
func (m *Model) Item() *Model {
	if m.kind != KindDict {
		return nil
	}
	if m.itemSelf {
		return m.parent
	}
	return m.item
}

// FieldNames returns a Record's field names in declaration order.
func (m *Model) FieldNames() []string {
	if m.kind != KindRecord {
		return nil
	}
	out := make([]string, 0, m.fields.Len())
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Field returns a Record's child model by name.
func (m *Model) Field(name string) (*Model, bool) {
	if m.kind != KindRecord {
		return nil, false
	}
	return m.fields.Get(name)
}

// Shape returns the record factory used by a Record's loader.
func (m *Model) Shape() *pvalue.Shape { return m.shape }
