package main

import (
	"context"
	"contactmanager/contact"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	formatCSV  = "csv"
	formatYAML = "yaml"
)

// record is one contact read from the input and the line it started on.
type record struct {
	Line    int
	Contact contact.Contact
}

type summary struct {
	Accepted int
	Rejected int
}

func detectFormat(path, format string) (string, error) {
	if format != "" && format != "auto" {
		return format, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return formatCSV, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("cannot tell the format of %s; pass --format", path)
}

func readRecords(r io.Reader, format string) ([]record, error) {
	switch format {
	case formatCSV:
		return readCSV(r)
	case formatYAML:
		return readYAML(r)
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

// csvColumns maps normalised header names to contact fields.
var csvColumns = map[string]func(*contact.Contact, string){
	"firstname":    func(c *contact.Contact, v string) { c.FirstName = v },
	"lastname":     func(c *contact.Contact, v string) { c.LastName = v },
	"phone":        func(c *contact.Contact, v string) { c.Phone = v },
	"email":        func(c *contact.Contact, v string) { c.Email = v },
	"organization": func(c *contact.Contact, v string) { c.Organization = v },
	"company":      func(c *contact.Contact, v string) { c.Organization = v },
}

var requiredColumns = []string{"firstname", "lastname", "phone", "email"}

func normaliseHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

func readCSV(r io.Reader) ([]record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}

	setters := make([]func(*contact.Contact, string), len(header))
	seen := map[string]bool{}
	for i, h := range header {
		name := normaliseHeader(h)
		setters[i] = csvColumns[name]
		seen[name] = true
	}
	for _, col := range requiredColumns {
		if !seen[col] {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	var records []record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		var c contact.Contact
		for i, v := range row {
			if i < len(setters) && setters[i] != nil {
				setters[i](&c, v)
			}
		}
		records = append(records, record{Line: line, Contact: c})
	}
}

type yamlContact struct {
	FirstName    string `yaml:"firstName"`
	LastName     string `yaml:"lastName"`
	Phone        string `yaml:"phone"`
	Email        string `yaml:"email"`
	Organization string `yaml:"organization"`
}

// readYAML accepts a top-level sequence of contacts, or a mapping whose
// "contacts" key holds one.
func readYAML(r io.Reader) ([]record, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	list := &doc
	if list.Kind == yaml.DocumentNode && len(list.Content) > 0 {
		list = list.Content[0]
	}
	if list.Kind == yaml.MappingNode {
		list = mappingValue(list, "contacts")
	}
	if list == nil || list.Kind != yaml.SequenceNode {
		return nil, errors.New("expected a list of contacts")
	}

	records := make([]record, 0, len(list.Content))
	for _, item := range list.Content {
		var yc yamlContact
		if err := item.Decode(&yc); err != nil {
			return nil, fmt.Errorf("line %d: %w", item.Line, err)
		}
		records = append(records, record{
			Line: item.Line,
			Contact: contact.Contact{
				FirstName:    yc.FirstName,
				LastName:     yc.LastName,
				Phone:        yc.Phone,
				Email:        yc.Email,
				Organization: yc.Organization,
			},
		})
	}
	return records, nil
}

func mappingValue(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// importRecords adds every valid record through svc and reports each
// rejected one on w. A nil svc only validates.
func importRecords(ctx context.Context, svc contact.Service, records []record, w io.Writer) (summary, error) {
	var sum summary
	for _, rec := range records {
		var err error
		if svc == nil {
			err = rec.Contact.Normalize().Validate()
		} else {
			var created contact.Contact
			created, err = svc.AddContact(ctx, rec.Contact)
			if err == nil {
				fmt.Fprintf(w, "line %d: added %s (id %d)\n", rec.Line, created.FullName(), created.ID)
			}
		}

		var verr *contact.ValidationError
		switch {
		case err == nil:
			sum.Accepted++
		case errors.As(err, &verr):
			sum.Rejected++
			for _, f := range slices.Sorted(maps.Keys(verr.Fields)) {
				fmt.Fprintf(w, "line %d: %s: %s\n", rec.Line, f, verr.Fields[f])
			}
		default:
			return sum, fmt.Errorf("line %d: %w", rec.Line, err)
		}
	}
	return sum, nil
}
