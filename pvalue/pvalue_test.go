package pvalue_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/pvalue"
)

func TestFromJS_ToJS_RoundTrip(t *testing.T) {
	in := map[string]any{
		"name": "x",
		"tags": []any{"a", "b"},
		"nested": map[string]any{
			"n": 1.5,
			"z": nil,
		},
	}
	v := pvalue.FromJS(in)
	m, ok := v.(pvalue.Map)
	require.True(t, ok, "expected Map, got %T", v)
	_, isList := m.Get("tags")
	require.True(t, isList)

	if diff := cmp.Diff(in, pvalue.ToJS(v)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFromJS_DoesNotAlias(t *testing.T) {
	in := map[string]any{"a": map[string]any{"b": 1}}
	v := pvalue.FromJS(in)
	in["a"].(map[string]any)["b"] = 2

	got, ok := pvalue.GetIn(v, []string{"a", "b"})
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestFromJS_TypedMapsAndSlices(t *testing.T) {
	v := pvalue.FromJS(map[string][]string{"k": {"x", "y"}})
	got, ok := pvalue.GetIn(v, []string{"k", "1"})
	require.True(t, ok)
	assert.Equal(t, "y", got)
}

func TestGetIn_Missing(t *testing.T) {
	v := pvalue.FromJS(map[string]any{"a": 1})
	_, ok := pvalue.GetIn(v, []string{"a", "b"})
	assert.False(t, ok, "scalar has no children")
	_, ok = pvalue.GetIn(v, []string{"nope"})
	assert.False(t, ok)
	root, ok := pvalue.GetIn(v, nil)
	assert.True(t, ok)
	assert.True(t, pvalue.Equal(v, root))
}

func TestSetIn_CreatesIntermediates(t *testing.T) {
	root := pvalue.NewMap()
	out, err := pvalue.SetIn(root, []string{"a", "b", "c"}, 3)
	require.NoError(t, err)
	got, ok := pvalue.GetIn(out, []string{"a", "b", "c"})
	require.True(t, ok)
	assert.Equal(t, 3, got)
	// the original value is untouched
	assert.Equal(t, 0, root.Len())
}

func TestSetIn_ScalarIntermediateFails(t *testing.T) {
	root := pvalue.FromJS(map[string]any{"a": 1})
	out, err := pvalue.SetIn(root, []string{"a", "b"}, 2)
	require.Error(t, err)
	iss, ok := pathstore.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, pathstore.CodeNotContainer, iss[0].Code)
	assert.Equal(t, "a", iss[0].Path)
	assert.True(t, pvalue.Equal(root, out))
}

func TestSetIn_List(t *testing.T) {
	root := pvalue.FromJS(map[string]any{"l": []any{1, 2}})
	out, err := pvalue.SetIn(root, []string{"l", "2"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2, 3}, pvalue.ToJS(out).(map[string]any)["l"])

	_, err = pvalue.SetIn(root, []string{"l", "5"}, 3)
	iss, _ := pathstore.AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, pathstore.CodeInvalidIndex, iss[0].Code)
	assert.Equal(t, "l.5", iss[0].Path)
}

func TestRecord_UnknownFieldRejected(t *testing.T) {
	shape := pvalue.NewShape("a", "b")
	r := shape.New(map[string]any{"a": 1, "zzz": 2})
	_, ok := r.Get("zzz")
	assert.False(t, ok, "undeclared keys are dropped by the factory")

	_, err := pvalue.SetIn(r, []string{"zzz"}, 1)
	iss, ok := pathstore.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, pathstore.CodeUnknownField, iss[0].Code)
}

func TestRecord_DeleteLeavesAbsent(t *testing.T) {
	r := pvalue.NewShape("a", "b").New(map[string]any{"a": 1, "b": 2})
	out, changed := pvalue.DeleteIn(r, []string{"a"})
	require.True(t, changed)
	_, ok := out.(pvalue.Record).Get("a")
	assert.False(t, ok)
	// snapshot isolation
	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestDeleteIn_MissingIsNoop(t *testing.T) {
	root := pvalue.FromJS(map[string]any{"a": map[string]any{"b": 1}})
	out, changed := pvalue.DeleteIn(root, []string{"a", "x", "y"})
	assert.False(t, changed)
	assert.True(t, pvalue.Equal(root, out))
}

func TestDeleteIn_ListShifts(t *testing.T) {
	root := pvalue.FromJS([]any{"a", "b", "c"})
	out, changed := pvalue.DeleteIn(root, []string{"1"})
	require.True(t, changed)
	assert.Equal(t, []any{"a", "c"}, pvalue.ToJS(out))
}

func TestSet_DedupAndEqual(t *testing.T) {
	s := pvalue.NewSet(1, 1.0, "x", "x")
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(1.0))
	assert.True(t, s.Has(1))
	assert.False(t, s.Has("y"))
	assert.True(t, pvalue.Equal(s, pvalue.NewSet("x", 1)))
	assert.Equal(t, 3, s.Add("y").Len())
	assert.Equal(t, 2, s.Len())
}

func TestMarshalAndFromJSON(t *testing.T) {
	v, err := pvalue.FromJSON([]byte(`{"b":[1,2],"a":{"c":true}}`))
	require.NoError(t, err)
	b, err := pvalue.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"c":true},"b":[1,2]}`, string(b))
}

func TestEqual_NumbersAcrossTypes(t *testing.T) {
	assert.True(t, pvalue.Equal(42, 42.0))
	assert.False(t, pvalue.Equal(42, "42"))
	assert.True(t, pvalue.Equal(pvalue.FromJS([]any{1, 2}), pvalue.NewList(1.0, 2.0)))
}
