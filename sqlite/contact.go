// Package sqlite stores contacts in a single SQLite file, or in memory when
// the path is ":memory:".
package sqlite

import (
	"context"
	"contactmanager/contact"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

const contactColumns = "id, first_name, last_name, phone, email, organization"

type ContactRepository struct {
	db *sql.DB
}

// Open applies the schema and, the first time a database is opened, stores
// the sample contacts so the id sequence continues at 4.
func Open(ctx context.Context, path string) (*ContactRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// one connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	r := &ContactRepository{db: db}
	if err := r.seed(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: seed: %w", err)
	}
	return r, nil
}

func (r *ContactRepository) Close() error {
	return r.db.Close()
}

func (r *ContactRepository) seed(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var seq int
	err = tx.QueryRowContext(ctx, `SELECT seq FROM sqlite_sequence WHERE name = 'contacts'`).Scan(&seq)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	for _, c := range contact.SampleContacts() {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO contacts (`+contactColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.FirstName, c.LastName, c.Phone, c.Email, c.Organization,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// AllContacts relies on SQLite's default BINARY collation, which compares
// bytes the same way contact.Compare does.
func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY last_name, first_name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *ContactRepository) ContactByID(ctx context.Context, id int) (contact.Contact, bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, false, nil
	}
	if err != nil {
		return contact.Contact{}, false, err
	}
	return c, true, nil
}

func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, phone, email, organization) VALUES (?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Phone, c.Email, c.Organization,
	)
	if err != nil {
		return contact.Contact{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return contact.Contact{}, err
	}
	c.ID = int(id)
	return c, nil
}

func (r *ContactRepository) UpdateContact(ctx context.Context, c contact.Contact) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET first_name = ?, last_name = ?, phone = ?, email = ?, organization = ? WHERE id = ?`,
		c.FirstName, c.LastName, c.Phone, c.Email, c.Organization, c.ID,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ContactRepository) DeleteContact(ctx context.Context, id int) (contact.Contact, bool, error) {
	row := r.db.QueryRowContext(ctx, `DELETE FROM contacts WHERE id = ? RETURNING `+contactColumns, id)
	c, err := scanContact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, false, nil
	}
	if err != nil {
		return contact.Contact{}, false, err
	}
	return c, true, nil
}

func (r *ContactRepository) CountContacts(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(s scanner) (contact.Contact, error) {
	var c contact.Contact
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Phone, &c.Email, &c.Organization)
	return c, err
}
