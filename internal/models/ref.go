package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Referable is implemented by entities that may appear populated inside a Ref.
type Referable interface {
	Identifier() uuid.UUID
	DisplayName() string
}

// Ref points at an entity either by id alone or with the entity populated.
// On the wire it is a bare id string or the full object.
type Ref[T Referable] struct {
	id    uuid.UUID
	value *T
}

// RefView is the normalized shape callers work against.
type RefView struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"displayName,omitempty"`
}

func RefByID[T Referable](id uuid.UUID) Ref[T] {
	return Ref[T]{id: id}
}

func RefTo[T Referable](v T) Ref[T] {
	return Ref[T]{id: v.Identifier(), value: &v}
}

func (r Ref[T]) ID() uuid.UUID {
	return r.id
}

func (r Ref[T]) IsPopulated() bool {
	return r.value != nil
}

func (r Ref[T]) Value() (T, bool) {
	if r.value == nil {
		var zero T
		return zero, false
	}

	return *r.value, true
}

func (r Ref[T]) Resolve() RefView {
	if r.value == nil {
		return RefView{ID: r.id}
	}

	return RefView{ID: (*r.value).Identifier(), DisplayName: (*r.value).DisplayName()}
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.value != nil {
		return json.Marshal(*r.value)
	}

	if r.id == uuid.Nil {
		return []byte("null"), nil
	}

	return json.Marshal(r.id.String())
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return fmt.Errorf("decoding reference id: %w", err)
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid reference id %q: %w", raw, err)
		}

		*r = Ref[T]{id: id}
		return nil
	}

	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return fmt.Errorf("decoding populated reference: %w", err)
	}

	*r = Ref[T]{id: v.Identifier(), value: &v}

	return nil
}
