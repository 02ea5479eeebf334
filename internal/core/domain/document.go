package domain

import (
	"encoding/json"
	"fmt"
)

// Document is an ordered collection of manuscript models with an ID index.
// It is not safe for concurrent mutation; a validation or fix call owns
// the document for its duration.
type Document struct {
	models []Model
	index  map[string]Model
}

// NewDocument builds a document from models in the given order.
// Later models with a duplicate ID replace earlier ones in the index.
func NewDocument(models ...Model) *Document {
	d := &Document{index: make(map[string]Model, len(models))}
	for _, m := range models {
		d.Add(m)
	}
	return d
}

// Models returns the models in insertion order. The slice must not be modified.
func (d *Document) Models() []Model {
	return d.models
}

// Len returns the number of models.
func (d *Document) Len() int {
	return len(d.models)
}

// Get returns the model with the given ID.
func (d *Document) Get(id string) (Model, bool) {
	m, ok := d.index[id]
	return m, ok
}

// Add appends a model to the document.
func (d *Document) Add(m Model) {
	if d.index == nil {
		d.index = make(map[string]Model)
	}
	d.models = append(d.models, m)
	d.index[m.Meta().ID] = m
}

// Remove deletes the model with the given ID. It reports whether a model was removed.
func (d *Document) Remove(id string) bool {
	if _, ok := d.index[id]; !ok {
		return false
	}
	delete(d.index, id)
	kept := d.models[:0]
	for _, m := range d.models {
		if m.Meta().ID != id {
			kept = append(kept, m)
		}
	}
	for i := len(kept); i < len(d.models); i++ {
		d.models[i] = nil
	}
	d.models = kept
	return true
}

// ModelsOf returns every model of type T in document order.
func ModelsOf[T Model](d *Document) []T {
	var out []T
	for _, m := range d.models {
		if t, ok := m.(T); ok {
			out = append(out, t)
		}
	}
	return out
}

// Manuscript returns the manuscript with the given ID.
func (d *Document) Manuscript(id string) (*Manuscript, error) {
	m, ok := d.index[id]
	if !ok {
		return nil, fmt.Errorf("manuscript %s: %w", id, ErrInvalidInput)
	}
	ms, ok := m.(*Manuscript)
	if !ok {
		return nil, fmt.Errorf("%s is %s, not a manuscript: %w", id, m.Meta().ObjectType, ErrInvalidInput)
	}
	return ms, nil
}

// NextPriority returns one more than the highest section priority, or 1 when
// the document has no sections.
func (d *Document) NextPriority() int {
	highest := 0
	for _, s := range ModelsOf[*Section](d) {
		if s.Priority > highest {
			highest = s.Priority
		}
	}
	return highest + 1
}

// ForManuscript returns a document restricted to models that belong to the
// given manuscript or to no manuscript at all. Models are shared, not copied.
func (d *Document) ForManuscript(manuscriptID string) *Document {
	out := &Document{index: make(map[string]Model, len(d.models))}
	for _, m := range d.models {
		owner := m.Meta().ManuscriptID
		if owner == "" || owner == manuscriptID {
			out.Add(m)
		}
	}
	return out
}

// MarshalJSON encodes the document as a JSON array of models.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d.models == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.models)
}

// UnmarshalJSON decodes a JSON array of models.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.models = nil
	d.index = make(map[string]Model, len(raw))
	for i, r := range raw {
		m, err := DecodeModel(r)
		if err != nil {
			return fmt.Errorf("model %d: %w", i, err)
		}
		d.Add(m)
	}
	return nil
}
