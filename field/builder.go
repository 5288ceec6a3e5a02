package field

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/pvalue"
)

type recordBuilder struct {
	fields   *orderedmap.OrderedMap[string, *Model]
	required bool
	def      defaultProvider
	iss      pathstore.Issues
}

type fieldStep struct {
	b    *recordBuilder
	name string
	m    *Model
}

// Record creates a new record builder. Fields keep their declaration order.
func Record() *recordBuilder {
	return &recordBuilder{fields: orderedmap.New[string, *Model]()}
}

// Field registers a child model under name.
func (b *recordBuilder) Field(name string, m *Model) *fieldStep {
	switch {
	case name == "":
		b.iss = pathstore.AppendIssues(b.iss, pathstore.NewIssue("", pathstore.CodeInvalidSchema, "field name must not be empty"))
	case m == nil:
		b.iss = pathstore.AppendIssues(b.iss, pathstore.NewIssue(name, pathstore.CodeInvalidSchema, "field model must not be nil"))
	default:
		if _, dup := b.fields.Get(name); dup {
			b.iss = pathstore.AppendIssues(b.iss, pathstore.NewIssue(name, pathstore.CodeInvalidSchema, "duplicate field name"))
		} else {
			b.fields.Set(name, m)
		}
	}
	return &fieldStep{b: b, name: name, m: m}
}

// Required marks the current field as required and returns the builder.
func (f *fieldStep) Required() *recordBuilder {
	if f.m != nil {
		f.m.Required()
	}
	return f.b
}

// Optional leaves the current field optional (default) and returns the builder.
func (f *fieldStep) Optional() *recordBuilder {
	if f.m != nil {
		f.m.required = false
	}
	return f.b
}

// Default sets a static default for the current field.
func (f *fieldStep) Default(v any) *recordBuilder {
	if f.m != nil {
		f.m.Default(v)
	}
	return f.b
}

// DefaultFunc sets a computed default for the current field.
func (f *fieldStep) DefaultFunc(fn func() any) *recordBuilder {
	if f.m != nil {
		f.m.DefaultFunc(fn)
	}
	return f.b
}

func (f *fieldStep) Field(name string, m *Model) *fieldStep { return f.b.Field(name, m) }
func (f *fieldStep) Build() (*Model, error)                 { return f.b.Build() }
func (f *fieldStep) MustBuild() *Model                      { return f.b.MustBuild() }

// Required marks the record being built as required within its own parent.
// Absent required records are synthesized from their fields' defaults when
// a parent computes defaults.
func (b *recordBuilder) Required() *recordBuilder {
	b.required = true
	return b
}

// Default sets a static default for the record being built.
func (b *recordBuilder) Default(v any) *recordBuilder {
	b.def = defaultProvider{set: true, value: v}
	return b
}

// Build validates the declarations, registers every child under the new
// record and returns it.
func (b *recordBuilder) Build() (*Model, error) {
	if len(b.iss) > 0 {
		return nil, b.iss
	}
	m := &Model{kind: KindRecord, required: b.required, def: b.def, fields: b.fields}
	names := make([]string, 0, b.fields.Len())
	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	m.shape = pvalue.NewShape(names...)
	var iss pathstore.Issues
	for pair := b.fields.Oldest(); pair != nil; pair = pair.Next() {
		if err := pair.Value.register(m, pathstore.At(pair.Key)); err != nil {
			if i2, ok := pathstore.AsIssues(err); ok {
				iss = pathstore.AppendIssues(iss, i2...)
			}
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return m, nil
}

// MustBuild is like Build but panics on error.
func (b *recordBuilder) MustBuild() *Model {
	m, err := b.Build()
	if err != nil {
		panic(err)
	}
	return m
}
