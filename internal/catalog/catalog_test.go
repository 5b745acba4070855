package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veille-marches/tender-cli/internal/model"
)

func TestNew_SeedsDefaults(t *testing.T) {
	c := New()

	assert.NotEmpty(t, c.Patterns("references", "procedure"))
	assert.NotEmpty(t, c.Patterns("montants", ""))
	assert.Nil(t, c.Patterns("inconnu", ""))
}

func TestCompile_CachesByPatternText(t *testing.T) {
	c := New()

	first := c.Compile(`(\d{4}-[A-Z]\d{3})`)
	second := c.Compile(`(\d{4}-[A-Z]\d{3})`)
	assert.Same(t, first, second)
}

func TestCompile_MalformedPatternFallsBackToCatchAll(t *testing.T) {
	c := New()

	re := c.Compile(`([unclosed`)
	require.NotNil(t, re)
	assert.True(t, re.MatchString("anything at all"))
	// The catch-all has no capture group, so extraction yields nothing.
	assert.Equal(t, 0, re.NumSubexp())
}

func TestExtractField_PatternPriorityOrder(t *testing.T) {
	c := New()

	text := "Référence de la procédure : 2024-A017\nAutre code 2025-B222"
	values := c.ExtractField(text, model.FieldReferenceProcedure)
	require.NotEmpty(t, values)

	// The contextual reference pattern outranks the bare format one, so the
	// labelled reference comes first.
	assert.Equal(t, "2024-A017", values[0])
	assert.Contains(t, values, "2025-B222")
}

func TestExtractField_DerivedOnlyFieldYieldsNothing(t *testing.T) {
	c := New()

	assert.Nil(t, c.FieldPatterns(model.FieldUnivers))
	assert.Empty(t, c.ExtractField("univers : Médical", model.FieldUnivers))
}

func TestAddRemove(t *testing.T) {
	c := New()
	pattern := `(TEST-\d+)`

	c.Add("custom", "codes", pattern)
	assert.Equal(t, []string{pattern}, c.Patterns("custom", "codes"))

	assert.True(t, c.Remove("custom", "codes", pattern))
	assert.Empty(t, c.Patterns("custom", "codes"))
	assert.False(t, c.Remove("custom", "codes", pattern))
}

func TestSaveFile_LoadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")

	c := New()
	c.Add("custom", "codes", `(TEST-\d+)`)
	require.NoError(t, c.SaveFile(path))

	c2 := New()
	require.NoError(t, c2.LoadFile(path))
	assert.Equal(t, c.Snapshot(), c2.Snapshot())
}

func TestLoadFile_ReplacesCategoryWholesale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.json")
	file := `{"patterns": {"references": {"procedure": ["(TEST-\\d+)"]}}}`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o644))

	c := New()
	require.NoError(t, c.LoadFile(path))

	assert.Equal(t, []string{`(TEST-\d+)`}, c.Patterns("references", "procedure"))
	assert.Empty(t, c.Patterns("references", "intitule"))
	// Untouched categories keep their defaults.
	assert.NotEmpty(t, c.Patterns("montants", "estime"))
}

func TestLoadFile_MissingOrInvalid(t *testing.T) {
	c := New()
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "absent.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	assert.Error(t, c.LoadFile(bad))
}

func TestSnapshot_IsACopy(t *testing.T) {
	c := New()

	snap := c.Snapshot()
	snap["references"]["procedure"][0] = "mutated"

	assert.NotEqual(t, "mutated", c.Patterns("references", "procedure")[0])
}
