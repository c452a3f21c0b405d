package httpserver

import (
	"contactmanager/contact"
	"strconv"
)

// ContactRequest is bound from JSON bodies and from the HTML contact form.
type ContactRequest struct {
	FirstName    string `json:"firstName" form:"firstName"`
	LastName     string `json:"lastName" form:"lastName"`
	Phone        string `json:"phone" form:"phone"`
	Email        string `json:"email" form:"email"`
	Organization string `json:"organization" form:"organization"`
}

func (r ContactRequest) ToContact(id int) contact.Contact {
	return contact.Contact{
		ID:           id,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Phone:        r.Phone,
		Email:        r.Email,
		Organization: r.Organization,
	}
}

func newContactRequest(c contact.Contact) ContactRequest {
	return ContactRequest{
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Email:        c.Email,
		Organization: c.Organization,
	}
}

// parseContactID turns a path parameter into an id. Anything that is not a
// positive integer can never name a stored contact.
func parseContactID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, contact.ErrContactNotFound
	}
	return id, nil
}
