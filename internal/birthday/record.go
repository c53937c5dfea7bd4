package birthday

import "time"

// Record is one tracked person. Records are owned exclusively by the store;
// ids are assigned there, monotonically, and never reused within a process.
type Record struct {
	ID        int       `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	BirthDate Date      `json:"birthDate"`
	HasYear   bool      `json:"hasYear"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Fields carries the mutable part of a record: everything except the
// store-assigned id and creation timestamp.
type Fields struct {
	FirstName string
	LastName  string
	BirthDate Date
	Comment   string
}

// DisplayName joins the name parts for logs and calendar summaries.
func (r Record) DisplayName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
