package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func section(id, category string, priority int, path ...string) *Section {
	if len(path) == 0 {
		path = []string{id}
	}
	return &Section{
		Base:     Base{ID: id, ObjectType: ObjectSection},
		Category: category,
		Priority: priority,
		Path:     path,
	}
}

// TestDocument_AddGetRemove tests basic collection operations
func TestDocument_AddGetRemove(t *testing.T) {
	doc := NewDocument(
		&Manuscript{Base: Base{ID: "M1", ObjectType: ObjectManuscript}},
		section("S1", "MPSectionCategory:abstract", 1),
	)

	assert.Equal(t, 2, doc.Len())

	m, ok := doc.Get("S1")
	require.True(t, ok)
	assert.Equal(t, "S1", m.Meta().ID)

	assert.True(t, doc.Remove("S1"))
	assert.False(t, doc.Remove("S1"))
	_, ok = doc.Get("S1")
	assert.False(t, ok)
	assert.Equal(t, 1, doc.Len())
}

// TestDocument_ModelsOf tests typed filtering in document order
func TestDocument_ModelsOf(t *testing.T) {
	doc := NewDocument(
		section("S2", "b", 2),
		&Keyword{Base: Base{ID: "K1", ObjectType: ObjectKeyword}, Name: "x"},
		section("S1", "a", 1),
	)

	sections := ModelsOf[*Section](doc)
	require.Len(t, sections, 2)
	assert.Equal(t, "S2", sections[0].ID)
	assert.Equal(t, "S1", sections[1].ID)
	assert.Len(t, ModelsOf[*Keyword](doc), 1)
	assert.Empty(t, ModelsOf[*Figure](doc))
}

// TestDocument_NextPriority tests priority allocation
func TestDocument_NextPriority(t *testing.T) {
	tests := []struct {
		name     string
		models   []Model
		expected int
	}{
		{"empty document", nil, 1},
		{"no sections", []Model{&Keyword{Base: Base{ID: "K1"}}}, 1},
		{"single section", []Model{section("S1", "a", 3)}, 4},
		{"highest wins", []Model{section("S1", "a", 7), section("S2", "b", 2)}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewDocument(tt.models...).NextPriority())
		})
	}
}

// TestDocument_Manuscript tests manuscript lookup errors
func TestDocument_Manuscript(t *testing.T) {
	doc := NewDocument(
		&Manuscript{Base: Base{ID: "M1", ObjectType: ObjectManuscript}},
		section("S1", "a", 1),
	)

	ms, err := doc.Manuscript("M1")
	require.NoError(t, err)
	assert.Equal(t, "M1", ms.ID)

	_, err = doc.Manuscript("missing")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = doc.Manuscript("S1")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestDocument_ForManuscript tests scoping to one manuscript
func TestDocument_ForManuscript(t *testing.T) {
	doc := NewDocument(
		&Manuscript{Base: Base{ID: "M1", ObjectType: ObjectManuscript, ManuscriptID: "M1"}},
		&Section{Base: Base{ID: "S1", ManuscriptID: "M1"}},
		&Section{Base: Base{ID: "S2", ManuscriptID: "M2"}},
		&Keyword{Base: Base{ID: "K1"}},
	)

	scoped := doc.ForManuscript("M1")
	assert.Equal(t, 3, scoped.Len())
	_, ok := scoped.Get("S2")
	assert.False(t, ok)
}

// TestSection_Scope tests scope and parent derivation from the path
func TestSection_Scope(t *testing.T) {
	top := section("S1", "a", 1, "S1")
	nested := section("S3", "c", 1, "S1", "S2", "S3")

	assert.Equal(t, "", top.Scope())
	assert.Equal(t, "", top.ParentID())
	assert.Equal(t, "S1,S2", nested.Scope())
	assert.Equal(t, "S2", nested.ParentID())
}

// TestDocument_JSONRoundTrip tests that known and unknown models survive encoding
func TestDocument_JSONRoundTrip(t *testing.T) {
	input := `[
		{"_id":"M1","objectType":"MPManuscript","title":"A study","keywordIDs":["K1"]},
		{"_id":"S1","objectType":"MPSection","category":"MPSectionCategory:abstract","priority":1,"path":["S1"],"title":"Abstract"},
		{"_id":"K1","objectType":"MPKeyword","name":"biology"},
		{"_id":"X1","objectType":"MPJournal","publisher":"ACME"}
	]`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(input), &doc))
	require.Equal(t, 4, doc.Len())

	ms, err := doc.Manuscript("M1")
	require.NoError(t, err)
	assert.Equal(t, "A study", ms.Title)
	assert.Equal(t, []string{"K1"}, ms.KeywordIDs)

	raw, ok := doc.Get("X1")
	require.True(t, ok)
	assert.IsType(t, &RawModel{}, raw)

	out, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"publisher":"ACME"`)
	assert.Contains(t, string(out), `"category":"MPSectionCategory:abstract"`)
}

// TestDecodeModel_InvalidJSON tests decode failure
func TestDecodeModel_InvalidJSON(t *testing.T) {
	_, err := DecodeModel([]byte(`{"_id":`))
	assert.Error(t, err)
}
