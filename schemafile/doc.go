// Package schemafile compiles declarative schema documents (YAML or JSON)
// into field models.
//
// A document describes the root record:
//
//	fields:
//	  id:      {kind: scalar, required: true}
//	  name:    {kind: scalar, default: anonymous}
//	  tags:    {kind: set, emptyDefault: true}
//	  profile:
//	    kind: record
//	    fields:
//	      bio: {kind: scalar}
//	  children: {kind: dict, key: label, item: self}
//
// Field declaration order is preserved. Duplicate keys are rejected.
package schemafile
