// Package models defines the client-side marketplace types exchanged with the
// backend and held in local view state.
package models

import (
	"bytes"
	"encoding/json"
)

// Ref points at another entity. The backend sends references either as a bare
// id string or as the populated object; Ref accepts both and keeps the id
// plus whatever display fields were present.
type Ref struct {
	ID    string
	Name  string
	Email string
}

type refObject struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var o refObject
	if err := json.Unmarshal(b, &o); err != nil {
		return err
	}
	*r = Ref{ID: o.ID, Name: o.Name, Email: o.Email}
	return nil
}

// MarshalJSON writes a bare id unless display fields are known.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Email == "" {
		return json.Marshal(r.ID)
	}
	return json.Marshal(refObject{ID: r.ID, Name: r.Name, Email: r.Email})
}

// Label is the best human-readable name for the reference.
func (r Ref) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}
