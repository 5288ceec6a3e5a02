package field_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pathstore "github.com/reoring/pathstore"
	"github.com/reoring/pathstore/field"
	"github.com/reoring/pathstore/pvalue"
)

func userSchema(t *testing.T, calls *int) *field.Model {
	t.Helper()
	profile := field.Record().
		Field("bio", field.Scalar()).
		Field("links", field.Dict("rel", field.Scalar())).
		MustBuild()
	m, err := field.Record().
		Field("id", field.Scalar()).Required().
		Field("name", field.Scalar()).Default("anonymous").
		Field("createdAt", field.Scalar()).DefaultFunc(func() any { *calls++; return *calls }).
		Field("tags", field.Set().EmptyDefault()).
		Field("profile", profile).Required().
		Build()
	require.NoError(t, err)
	return m
}

func TestLoad_RoundTripPresentFields(t *testing.T) {
	calls := 0
	m := userSchema(t, &calls)
	in := map[string]any{
		"id":   "u1",
		"name": "Reo",
		"tags": []any{"a", "b", "a"},
		"profile": map[string]any{
			"bio":   "hi",
			"links": map[string]any{"home": "https://example.com"},
		},
	}
	v, ok, err := m.Load(in)
	require.NoError(t, err)
	require.True(t, ok)

	for _, p := range []string{"id", "name", "profile.bio", "profile.links.home"} {
		got, found := pvalue.GetIn(v, pathstore.SplitPath(p))
		require.True(t, found, p)
		want, _ := pvalue.GetIn(pvalue.FromJS(in), pathstore.SplitPath(p))
		assert.True(t, pvalue.Equal(want, got), "%s: want %v got %v", p, want, got)
	}
	tags, _ := pvalue.GetIn(v, []string{"tags"})
	require.IsType(t, pvalue.Set{}, tags)
	assert.Equal(t, 2, tags.(pvalue.Set).Len())
}

func TestLoad_OptionalDefaults_FuncInvokedOncePerLoad(t *testing.T) {
	calls := 0
	m := userSchema(t, &calls)

	v, _, err := m.Load(map[string]any{"id": "u1", "profile": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	rec := v.(pvalue.Record)
	name, ok := rec.Get("name")
	require.True(t, ok)
	assert.Equal(t, "anonymous", name)
	created, _ := rec.Get("createdAt")
	assert.Equal(t, 1, created)
	tags, _ := rec.Get("tags")
	assert.Equal(t, 0, tags.(pvalue.Set).Len())

	profile, ok := rec.Get("profile")
	require.True(t, ok)
	assert.IsType(t, pvalue.Record{}, profile)

	_, _, _ = m.Load(map[string]any{"id": "u2", "profile": map[string]any{}})
	assert.Equal(t, 2, calls)
}

func TestMakeDefault_SynthesizesRequiredNestedRecord(t *testing.T) {
	calls := 0
	m := userSchema(t, &calls)
	v, ok, err := m.Synthesize()
	require.True(t, ok)
	// id is required without a default
	assert.True(t, pathstore.IsSchemaViolation(err))
	assert.Equal(t, 1, calls)

	profile := mustGet(t, v, "profile")
	assert.IsType(t, pvalue.Record{}, profile)
	_, hasID := v.(pvalue.Record).Get("id")
	assert.False(t, hasID)
}

func TestLoad_MissingRequiredIsSchemaViolation(t *testing.T) {
	calls := 0
	m := userSchema(t, &calls)
	v, ok, err := m.Load(map[string]any{"name": "x", "profile": map[string]any{}})
	require.Error(t, err)
	assert.True(t, pathstore.IsSchemaViolation(err))
	iss, _ := pathstore.AsIssues(err)
	require.Len(t, iss, 1)
	assert.Equal(t, "id", iss[0].Path)

	// partial result still usable, id left unset
	require.True(t, ok)
	_, has := v.(pvalue.Record).Get("id")
	assert.False(t, has)
	name, _ := v.(pvalue.Record).Get("name")
	assert.Equal(t, "x", name)
}

func TestLoad_DefaultSlotsAreAbsent(t *testing.T) {
	calls := 0
	m := userSchema(t, &calls)
	v, _, err := m.Load(map[string]any{"id": "u1", "profile": map[string]any{}})
	require.NoError(t, err)
	out, changed := pvalue.DeleteIn(v, []string{"name"})
	require.True(t, changed)
	_, ok := pvalue.GetIn(out, []string{"name"})
	assert.False(t, ok, "deleted field must not revive its schema default")
}

func TestLoad_NilRecordIsAbsent(t *testing.T) {
	m := field.Record().Field("a", field.Scalar()).MustBuild()
	_, ok, err := m.Load(nil)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestLoad_UnknownKeysIgnored(t *testing.T) {
	m := field.Record().Field("a", field.Scalar()).MustBuild()
	v, _, err := m.Load(map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, pvalue.ToJS(v))
}

func TestSetLoader_NonArrayIsEmpty(t *testing.T) {
	s := field.Set()
	v, ok, err := s.Load("not an array")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, v.(pvalue.Set).Len())

	v, _, _ = s.Load([]string{"x", "y"})
	assert.True(t, v.(pvalue.Set).Has("y"))
}

func TestDictOfSelf_RecursiveTree(t *testing.T) {
	node := field.Record().
		Field("label", field.Scalar()).
		Field("children", field.DictOfSelf("label")).
		MustBuild()
	children, ok := node.Field("children")
	require.True(t, ok)
	require.Same(t, node, children.Item())

	in := map[string]any{
		"label": "root",
		"children": map[string]any{
			"a": map[string]any{"label": "a", "children": map[string]any{
				"b": map[string]any{"label": "b"},
			}},
		},
	}
	v, _, err := node.Load(in)
	require.NoError(t, err)
	got, found := pvalue.GetIn(v, []string{"children", "a", "children", "b", "label"})
	require.True(t, found)
	assert.Equal(t, "b", got)
	// grandchild records are typed by the same schema
	_, isRecord := mustGet(t, v, "children.a.children.b").(pvalue.Record)
	assert.True(t, isRecord)
}

func TestRegister_SharedModelFailsFast(t *testing.T) {
	shared := field.Scalar()
	_, err := field.Record().Field("a", shared).Build()
	require.NoError(t, err)

	_, err = field.Record().Field("b", shared).Build()
	require.Error(t, err)
	iss, _ := pathstore.AsIssues(err)
	assert.Equal(t, pathstore.CodeAlreadyRegistered, iss[0].Code)
	assert.Equal(t, "b", iss[0].Path)
}

func TestRegister_IdempotentForSameParent(t *testing.T) {
	m := field.Record().Field("a", field.Scalar()).MustBuild()
	a, _ := m.Field("a")
	assert.NoError(t, a.Register(m))
	assert.Same(t, m, a.Parent())
}

func TestBuild_DuplicateAndNilFields(t *testing.T) {
	_, err := field.Record().Field("a", field.Scalar()).Field("a", field.Scalar()).Build()
	require.Error(t, err)
	_, err = field.Record().Field("a", nil).Build()
	require.Error(t, err)
}

func TestSelfDictNeedsRecordParent(t *testing.T) {
	d := field.DictOfSelf("k")
	err := d.Register(nil)
	require.Error(t, err)
	iss, _ := pathstore.AsIssues(err)
	assert.Equal(t, pathstore.CodeInvalidSchema, iss[0].Code)
}

func TestMakeDefault(t *testing.T) {
	assertAbsent := func(m *field.Model) {
		_, ok := m.MakeDefault()
		assert.False(t, ok)
	}
	assertAbsent(field.Scalar())
	assertAbsent(field.Set())

	v, ok := field.Scalar().Default(map[string]any{"x": 1}).MakeDefault()
	require.True(t, ok)
	assert.IsType(t, pvalue.Map{}, v)

	v, ok = field.Set().EmptyDefault().MakeDefault()
	require.True(t, ok)
	assert.Equal(t, 0, v.(pvalue.Set).Len())

	v, ok = field.Dict("k", field.Scalar()).MakeDefault()
	require.True(t, ok)
	assert.Equal(t, 0, v.(pvalue.Map).Len())

	rec := field.Record().
		Field("a", field.Scalar()).Default(1).
		Field("b", field.Scalar()).
		Field("c", field.Scalar()).Required().
		MustBuild()
	v, ok, err := rec.Synthesize()
	require.True(t, ok)
	assert.True(t, pathstore.IsSchemaViolation(err))
	if diff := cmp.Diff(map[string]any{"a": 1}, pvalue.ToJS(v)); diff != "" {
		t.Fatalf("synthesized record mismatch (-want +got):\n%s", diff)
	}
}

func TestNavigateAndResolve(t *testing.T) {
	m := field.Record().
		Field("meta", field.Record().Field("owner", field.Scalar()).MustBuild()).
		Field("items", field.Dict("id", field.Record().Field("qty", field.Scalar()).MustBuild())).
		MustBuild()

	next, rest, ok := m.Navigate([]string{"meta", "owner"})
	require.True(t, ok)
	assert.Equal(t, field.KindRecord, next.Kind())
	assert.Equal(t, []string{"owner"}, rest)

	_, rest, ok = m.Navigate([]string{"nope", "x"})
	assert.False(t, ok)
	assert.Equal(t, []string{"nope", "x"}, rest)

	qty, ok := m.Resolve("items.anything.qty")
	require.True(t, ok)
	assert.Equal(t, field.KindScalar, qty.Kind())

	_, ok = m.Resolve("items.k.missing")
	assert.False(t, ok)

	self, ok := m.Resolve("")
	require.True(t, ok)
	assert.Same(t, m, self)
}

func TestLoadWithMeta_Presence(t *testing.T) {
	m := field.Record().
		Field("a", field.Scalar()).
		Field("b", field.Scalar()).Default(2).
		Field("c", field.Scalar()).Required().
		Field("d", field.Record().Field("e", field.Scalar()).MustBuild()).
		MustBuild()
	dm, err := m.LoadWithMeta(map[string]any{"a": nil, "d": map[string]any{"e": 1}}, pathstore.PresenceOpt{Collect: true})
	require.Error(t, err)
	assert.True(t, dm.Present)
	assert.True(t, dm.Presence.Has("a", pathstore.PresenceSeen|pathstore.PresenceWasNull))
	assert.True(t, dm.Presence.Has("b", pathstore.PresenceDefaultApplied))
	assert.True(t, dm.Presence.Has("c", pathstore.PresenceMissing))
	assert.True(t, dm.Presence.Has("d.e", pathstore.PresenceSeen))

	filtered := pathstore.PresenceOpt{Collect: true, Include: []string{"d"}}
	dm, _ = m.LoadWithMeta(map[string]any{"d": map[string]any{"e": 1}}, filtered)
	assert.Equal(t, []string{"d", "d.e"}, dm.Presence.Paths())
}

func TestDescribe(t *testing.T) {
	m := field.Record().
		Field("x", field.Scalar()).Required().
		Field("kids", field.DictOfSelf("id")).
		MustBuild()
	d := m.Describe()
	assert.Equal(t, "record", d.Kind)
	require.Len(t, d.Fields, 2)
	assert.True(t, d.Fields[0].Model.Required)
	assert.True(t, d.Fields[1].Model.Self)
	assert.Equal(t, []string{"x", "kids"}, m.FieldNames())
}

func mustGet(t *testing.T, v any, path string) any {
	t.Helper()
	got, ok := pvalue.GetIn(v, pathstore.SplitPath(path))
	require.True(t, ok, path)
	return got
}
