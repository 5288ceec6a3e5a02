package field

// Description is a plain, serializable view of a Model for tooling.
type Description struct {
	Kind       string       `json:"kind" yaml:"kind"`
	Required   bool         `json:"required,omitempty" yaml:"required,omitempty"`
	HasDefault bool         `json:"hasDefault,omitempty" yaml:"hasDefault,omitempty"`
	KeyName    string       `json:"keyName,omitempty" yaml:"keyName,omitempty"`
	Fields     []NamedField `json:"fields,omitempty" yaml:"fields,omitempty"`
	Item       *Description `json:"item,omitempty" yaml:"item,omitempty"`
	Self       bool         `json:"self,omitempty" yaml:"self,omitempty"`
}

// NamedField pairs a record field name with its description.
type NamedField struct {
	Name  string      `json:"name" yaml:"name"`
	Model Description `json:"model" yaml:"model"`
}

// Describe returns the description of m and its subtree. Self dictionaries
// are marked with Self instead of being expanded.
func (m *Model) Describe() Description {
	d := Description{Kind: m.kind.String(), Required: m.required, HasDefault: m.def.set}
	switch m.kind {
	case KindRecord:
		for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
			d.Fields = append(d.Fields, NamedField{Name: pair.Key, Model: pair.Value.Describe()})
		}
	case KindDict:
		d.KeyName = m.keyName
		if m.itemSelf {
			d.Self = true
		} else if m.item != nil {
			it := m.item.Describe()
			d.Item = &it
		}
	}
	return d
}
