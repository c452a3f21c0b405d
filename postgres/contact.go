package postgres

import (
	"context"
	"contactmanager/contact"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// byteOrder sorts the way contact.Compare does, independent of the database
// collation.
const byteOrder = `last_name COLLATE "C", first_name COLLATE "C", id`

// ContactModel represents the database model for contacts
type ContactModel struct {
	ID           int    `gorm:"primaryKey"`
	FirstName    string `gorm:"size:50;not null"`
	LastName     string `gorm:"size:50;not null"`
	Phone        string `gorm:"size:20;not null"`
	Email        string `gorm:"size:100;not null"`
	Organization string `gorm:"size:50;not null;default:''"`
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

func newContactModel(c contact.Contact) ContactModel {
	return ContactModel{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone,
		Email:        c.Email,
		Organization: c.Organization,
	}
}

func (m ContactModel) toContact() contact.Contact {
	return contact.Contact{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Phone:        m.Phone,
		Email:        m.Email,
		Organization: m.Organization,
	}
}

// ContactRepository implements contact.Repository on top of the contacts
// table created by the migrations directory.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	var models []ContactModel
	if err := r.db.WithContext(ctx).Order(byteOrder).Find(&models).Error; err != nil {
		return nil, err
	}

	contacts := make([]contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = model.toContact()
	}
	return contacts, nil
}

func (r *ContactRepository) ContactByID(ctx context.Context, id int) (contact.Contact, bool, error) {
	var model ContactModel
	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return contact.Contact{}, false, nil
	}
	if err != nil {
		return contact.Contact{}, false, err
	}
	return model.toContact(), true, nil
}

// CreateContact lets the id sequence pick the id; any id on c is ignored.
func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	model := newContactModel(c)
	model.ID = 0
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return contact.Contact{}, err
	}
	return model.toContact(), nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c contact.Contact) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ContactModel{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"first_name":   c.FirstName,
			"last_name":    c.LastName,
			"phone":        c.Phone,
			"email":        c.Email,
			"organization": c.Organization,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int) (contact.Contact, bool, error) {
	var models []ContactModel
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&models)
	if res.Error != nil {
		return contact.Contact{}, false, res.Error
	}
	if res.RowsAffected == 0 || len(models) == 0 {
		return contact.Contact{}, false, nil
	}
	return models[0].toContact(), true, nil
}

func (r *ContactRepository) CountContacts(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&ContactModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return int(n), nil
}
