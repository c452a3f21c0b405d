package contact

import (
	"cmp"
	"contactmanager/errs"
	"slices"
)

var (
	ErrInvalidContact  = errs.Errorf(errs.EINVALID, "contact: invalid contact")
	ErrContactNotFound = errs.Errorf(errs.ENOTFOUND, "contact: contact not found")
)

// Contact is a person record. ID is assigned by the repository on creation
// and never changes afterwards. An empty Organization means none.
type Contact struct {
	ID           int    `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Organization string `json:"organization,omitempty"`
}

func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

// SampleContacts returns the records every fresh store starts with.
func SampleContacts() []Contact {
	return []Contact{
		{
			ID:           1,
			FirstName:    "John",
			LastName:     "Doe",
			Phone:        "555-1234",
			Email:        "john.doe@example.com",
			Organization: "Acme Corp",
		},
		{
			ID:           2,
			FirstName:    "Jane",
			LastName:     "Smith",
			Phone:        "555-5678",
			Email:        "jane.smith@example.com",
			Organization: "Tech Solutions",
		},
		{
			ID:           3,
			FirstName:    "Bob",
			LastName:     "Johnson",
			Phone:        "555-9012",
			Email:        "bob.johnson@example.com",
			Organization: "Global Industries",
		},
	}
}

// Compare orders contacts by last name, then first name, then ID.
func Compare(a, b Contact) int {
	return cmp.Or(
		cmp.Compare(a.LastName, b.LastName),
		cmp.Compare(a.FirstName, b.FirstName),
		cmp.Compare(a.ID, b.ID),
	)
}

func SortContacts(contacts []Contact) {
	slices.SortFunc(contacts, Compare)
}
