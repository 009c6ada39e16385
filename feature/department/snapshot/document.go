package snapshot

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"unicode/utf8"

	"datasync/core/reconcile"
	"datasync/core/utils"
)

// Element names used in validation errors.
const (
	codeElement        = "DEPCODE"
	jobElement         = "DEPJOB"
	descriptionElement = "DESCRIPTION"
)

// ErrInvalidText is returned by Encode for values holding invalid UTF-8 or
// characters outside the XML 1.0 character range.
var ErrInvalidText = errors.New("value cannot be represented in XML")

// document is the <Results> root.
type document struct {
	XMLName xml.Name `xml:"Results"`
	Rows    []row    `xml:"Row"`
}

// row is one <Row>. Pointer fields tell an absent element from an empty one.
type row struct {
	Code        *string `xml:"DEPCODE"`
	Job         *string `xml:"DEPJOB"`
	Description *string `xml:"DESCRIPTION"`
}

// Encode renders c as a snapshot document with rows sorted by key. An empty
// collection encodes to zero bytes. Values XML cannot carry unchanged fail
// with ErrInvalidText.
func Encode(c *reconcile.Collection) ([]byte, error) {
	if c.Len() == 0 {
		return []byte{}, nil
	}

	doc := document{Rows: make([]row, 0, c.Len())}
	for _, r := range c.Records() {
		if err := checkRecord(r); err != nil {
			return nil, err
		}
		code, job := r.Key.Code, r.Key.Job
		doc.Rows = append(doc.Rows, row{
			Code:        &code,
			Job:         &job,
			Description: descriptionPtr(r),
		})
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses a snapshot document. Blank input is an empty collection.
// Every row needs non-empty DEPCODE and DEPJOB; repeated keys are rejected.
func Decode(data []byte) (*reconcile.Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return reconcile.NewBuilder(0).Collection(), nil
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("malformed snapshot: %w", err)
	}

	b := reconcile.NewBuilder(len(doc.Rows))
	for i, r := range doc.Rows {
		if err := mandatory(i, codeElement, r.Code); err != nil {
			return nil, err
		}
		if err := mandatory(i, jobElement, r.Job); err != nil {
			return nil, err
		}

		record := reconcile.Record{
			Key:         reconcile.Key{Code: *r.Code, Job: *r.Job},
			Description: utils.ToNullString(r.Description),
		}
		if err := b.Add(record); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	return b.Collection(), nil
}

func mandatory(index int, element string, value *string) error {
	if value == nil {
		return fmt.Errorf("mandatory field %s is not found in row %d", element, index)
	}
	if *value == "" {
		return fmt.Errorf("mandatory field %s is empty in row %d", element, index)
	}
	return nil
}

func descriptionPtr(r reconcile.Record) *string {
	if !r.Description.Valid {
		return nil
	}
	d := r.Description.String
	return &d
}

func checkRecord(r reconcile.Record) error {
	fields := []struct {
		name  string
		value string
	}{
		{codeElement, r.Key.Code},
		{jobElement, r.Key.Job},
		{descriptionElement, r.Description.String},
	}
	for _, f := range fields {
		if !validText(f.value) {
			return fmt.Errorf("row %s, field %s: %w", r.Key, f.name, ErrInvalidText)
		}
	}
	return nil
}

// validText reports whether s is valid UTF-8 made only of XML 1.0 characters.
func validText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}
