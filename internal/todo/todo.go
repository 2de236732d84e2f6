// Package todo maps todo CRUD operations onto a kv.Store. Each todo is one
// entry keyed by the decimal form of its id, holding the JSON encoded record.
package todo

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
)

type Todo struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Key is the store key a todo lives under.
func (t Todo) Key() string {
	return strconv.FormatUint(t.ID, 10)
}

// TodoUpdate carries the replaceable fields of a todo; the id always comes
// from the request path.
type TodoUpdate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ParseID parses a path id. Anything but a base-10 unsigned 64-bit integer
// is a validation error.
func ParseID(s string) (uint64, error) {
	if s == "" {
		return 0, validationError("missing todo id", nil)
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, validationError("invalid todo id "+strconv.Quote(s), err)
	}
	return id, nil
}

// DecodeTodo reads a complete todo. All three fields are required.
func DecodeTodo(r io.Reader) (Todo, error) {
	var body struct {
		ID          *uint64 `json:"id"`
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return Todo{}, validationError("malformed todo", err)
	}
	switch {
	case body.ID == nil:
		return Todo{}, validationError("malformed todo", errors.New("missing field \"id\""))
	case body.Name == nil:
		return Todo{}, validationError("malformed todo", errors.New("missing field \"name\""))
	case body.Description == nil:
		return Todo{}, validationError("malformed todo", errors.New("missing field \"description\""))
	}
	return Todo{ID: *body.ID, Name: *body.Name, Description: *body.Description}, nil
}

// DecodeUpdate reads a todo update. Both fields are required.
func DecodeUpdate(r io.Reader) (TodoUpdate, error) {
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		return TodoUpdate{}, validationError("malformed todo update", err)
	}
	switch {
	case body.Name == nil:
		return TodoUpdate{}, validationError("malformed todo update", errors.New("missing field \"name\""))
	case body.Description == nil:
		return TodoUpdate{}, validationError("malformed todo update", errors.New("missing field \"description\""))
	}
	return TodoUpdate{Name: *body.Name, Description: *body.Description}, nil
}

// decodeJSON decodes exactly one JSON value from r; anything but whitespace
// after it is an error.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
