package contact

import "context"

type Service interface {
	ListContacts(ctx context.Context) ([]Contact, error)
	GetContact(ctx context.Context, id int) (Contact, error)
	AddContact(ctx context.Context, c Contact) (Contact, error)
	UpdateContact(ctx context.Context, c Contact) (bool, error)
	DeleteContact(ctx context.Context, id int) (Contact, bool, error)
	CountContacts(ctx context.Context) (int, error)
}

// Repository owns contact identity and lifetime. A missing id is reported
// through the boolean results, never as an error.
type Repository interface {
	AllContacts(ctx context.Context) ([]Contact, error)
	ContactByID(ctx context.Context, id int) (Contact, bool, error)
	CreateContact(ctx context.Context, c Contact) (Contact, error)
	UpdateContact(ctx context.Context, c Contact) (bool, error)
	DeleteContact(ctx context.Context, id int) (Contact, bool, error)
	CountContacts(ctx context.Context) (int, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) ListContacts(ctx context.Context) ([]Contact, error) {
	return uc.r.AllContacts(ctx)
}

func (uc *Usecase) GetContact(ctx context.Context, id int) (Contact, error) {
	c, ok, err := uc.r.ContactByID(ctx, id)
	if err != nil {
		return Contact{}, err
	}
	if !ok {
		return Contact{}, ErrContactNotFound
	}
	return c, nil
}

// AddContact validates c and stores it under a freshly assigned id.
func (uc *Usecase) AddContact(ctx context.Context, c Contact) (Contact, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return Contact{}, err
	}
	return uc.r.CreateContact(ctx, c)
}

// UpdateContact validates c and overwrites the stored contact with c.ID.
// It reports false when no such contact exists.
func (uc *Usecase) UpdateContact(ctx context.Context, c Contact) (bool, error) {
	c = c.Normalize()
	if err := c.Validate(); err != nil {
		return false, err
	}
	return uc.r.UpdateContact(ctx, c)
}

func (uc *Usecase) DeleteContact(ctx context.Context, id int) (Contact, bool, error) {
	return uc.r.DeleteContact(ctx, id)
}

func (uc *Usecase) CountContacts(ctx context.Context) (int, error) {
	return uc.r.CountContacts(ctx)
}
