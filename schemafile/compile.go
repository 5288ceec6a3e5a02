package schemafile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/field"
)

// Format selects the document syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var declKeys = map[string]bool{
	"kind": true, "required": true, "default": true, "emptyDefault": true,
	"fields": true, "key": true, "item": true, "description": true,
}

// Parse decodes a schema document and compiles it into a root record model.
func Parse(data []byte, format Format) (*field.Model, error) {
	var (
		tree any
		err  error
	)
	switch format {
	case FormatJSON:
		tree, err = decodeJSON(data)
	case FormatYAML, "":
		tree, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("schemafile: unknown format %q", format)
	}
	if err != nil {
		return nil, pathstore.Issues{{Code: pathstore.CodeParseError, Message: err.Error(), Cause: err}}
	}
	return Compile(tree)
}

// ParseFile reads path and parses it, choosing the format from the extension
// (.json for JSON, anything else for YAML).
func ParseFile(path string) (*field.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, FormatFor(path))
}

// FormatFor returns the format implied by a file name.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Compile turns a decoded document into a root record model. The root may
// omit kind; it must describe a record.
func Compile(tree any) (*field.Model, error) {
	root, ok := tree.(object)
	if !ok {
		return nil, pathstore.Issues{pathstore.NewIssue("", pathstore.CodeInvalidSchema, "schema document must be a mapping")}
	}
	if _, has := root.Get("kind"); !has {
		root.Set("kind", "record")
	}
	c := &compiler{}
	m := c.model(root, pathstore.Root())
	if len(c.iss) > 0 {
		return nil, c.iss
	}
	if m.Kind() != field.KindRecord {
		return nil, pathstore.Issues{pathstore.NewIssue("", pathstore.CodeInvalidSchema, "root must be a record")}
	}
	return m, nil
}

type compiler struct {
	iss pathstore.Issues
}

func (c *compiler) fail(at pathstore.PathRef, hint string) {
	c.iss = pathstore.AppendIssues(c.iss, pathstore.NewIssue(at.Dotted(), pathstore.CodeInvalidSchema, hint))
}

// model compiles one field declaration. It always returns a model so that
// compilation can continue and report every problem at once.
func (c *compiler) model(decl object, at pathstore.PathRef) *field.Model {
	for pair := decl.Oldest(); pair != nil; pair = pair.Next() {
		if !declKeys[pair.Key] {
			c.fail(at, fmt.Sprintf("unknown attribute %q", pair.Key))
		}
	}
	kind, _ := decl.Get("kind")
	var m *field.Model
	switch kind {
	case "scalar", nil:
		m = field.Scalar()
	case "set":
		m = field.Set()
		if flag(decl, "emptyDefault") {
			m.EmptyDefault()
		}
	case "record":
		m = c.record(decl, at)
	case "dict":
		m = c.dict(decl, at)
	default:
		c.fail(at, fmt.Sprintf("unknown kind %v", kind))
		m = field.Scalar()
	}
	if flag(decl, "required") {
		m.Required()
	}
	if def, ok := decl.Get("default"); ok {
		m.Default(plain(def))
	}
	return m
}

func (c *compiler) record(decl object, at pathstore.PathRef) *field.Model {
	b := field.Record()
	raw, _ := decl.Get("fields")
	fields, ok := raw.(object)
	if raw != nil && !ok {
		c.fail(at, "fields must be a mapping")
	}
	if ok {
		for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
			p := at.Field(pair.Key)
			child, isObj := pair.Value.(object)
			if !isObj {
				// shorthand: `name: scalar`
				kind, isStr := pair.Value.(string)
				if !isStr {
					c.fail(p, "field declaration must be a mapping or a kind name")
					continue
				}
				child = objectOf("kind", kind)
			}
			b.Field(pair.Key, c.model(child, p))
		}
	}
	m, err := b.Build()
	if err != nil {
		if iss, ok := pathstore.AsIssues(err); ok {
			c.iss = pathstore.AppendIssues(c.iss, iss.Rebase(at.Dotted())...)
		}
		return field.Record().MustBuild()
	}
	return m
}

func (c *compiler) dict(decl object, at pathstore.PathRef) *field.Model {
	key, _ := decl.Get("key")
	keyName, _ := key.(string)
	item, _ := decl.Get("item")
	switch t := item.(type) {
	case string:
		if t == "self" {
			return field.DictOfSelf(keyName)
		}
		return field.Dict(keyName, c.model(objectOf("kind", t), at.Field("*")))
	case object:
		return field.Dict(keyName, c.model(t, at.Field("*")))
	case nil:
		c.fail(at, "dict needs an item")
	default:
		c.fail(at, "dict item must be a mapping, a kind name or self")
	}
	return field.Dict(keyName, field.Scalar())
}

func flag(decl object, name string) bool {
	v, _ := decl.Get(name)
	b, _ := v.(bool)
	return b
}

func objectOf(k string, v any) object {
	m := newObject()
	m.Set(k, v)
	return m
}
