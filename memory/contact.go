// Package memory keeps contacts in process memory. Data lives as long as the
// repository value does.
package memory

import (
	"context"
	"contactmanager/contact"
	"slices"
	"sync"
)

// ContactRepository implements contact.Repository on a guarded slice.
// Ids come from a counter that only moves forward, so a deleted id is
// never handed out again by the same repository.
type ContactRepository struct {
	mu       sync.RWMutex
	contacts []contact.Contact
	nextID   int
}

// NewContactRepository returns a repository holding contact.SampleContacts
// with the counter positioned after them.
func NewContactRepository() *ContactRepository {
	return NewContactRepositoryWith(contact.SampleContacts())
}

// NewContactRepositoryWith returns a repository holding seed as given. The
// counter starts after the highest seeded id.
func NewContactRepositoryWith(seed []contact.Contact) *ContactRepository {
	r := &ContactRepository{
		contacts: slices.Clone(seed),
		nextID:   1,
	}
	for _, c := range seed {
		if c.ID >= r.nextID {
			r.nextID = c.ID + 1
		}
	}
	return r
}

func (r *ContactRepository) AllContacts(_ context.Context) ([]contact.Contact, error) {
	r.mu.RLock()
	contacts := slices.Clone(r.contacts)
	r.mu.RUnlock()

	if contacts == nil {
		contacts = []contact.Contact{}
	}
	contact.SortContacts(contacts)
	return contacts, nil
}

func (r *ContactRepository) ContactByID(_ context.Context, id int) (contact.Contact, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return contact.Contact{}, false, nil
	}
	return r.contacts[i], true, nil
}

// CreateContact ignores c.ID and stores c under the next counter value.
func (r *ContactRepository) CreateContact(_ context.Context, c contact.Contact) (contact.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = r.nextID
	r.nextID++
	r.contacts = append(r.contacts, c)
	return c, nil
}

func (r *ContactRepository) UpdateContact(_ context.Context, c contact.Contact) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(c.ID)
	if i < 0 {
		return false, nil
	}

	existing := &r.contacts[i]
	existing.FirstName = c.FirstName
	existing.LastName = c.LastName
	existing.Phone = c.Phone
	existing.Email = c.Email
	existing.Organization = c.Organization
	return true, nil
}

func (r *ContactRepository) DeleteContact(_ context.Context, id int) (contact.Contact, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return contact.Contact{}, false, nil
	}

	removed := r.contacts[i]
	r.contacts = slices.Delete(r.contacts, i, i+1)
	return removed, true, nil
}

func (r *ContactRepository) CountContacts(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.contacts), nil
}

// indexOf must be called with mu held.
func (r *ContactRepository) indexOf(id int) int {
	return slices.IndexFunc(r.contacts, func(c contact.Contact) bool {
		return c.ID == id
	})
}
