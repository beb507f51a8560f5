package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one metadata entry. Value holds a string, json.Number, bool or nil
// for primitives, and json.RawMessage (or a Go map/slice) for nested values.
type Field struct {
	Name  string
	Value any
}

// Category is a named, ordered group of fields.
type Category struct {
	Name   string
	Fields []Field
}

// Get returns the value of the named field.
func (c *Category) Get(name string) (any, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// MetadataDocument maps category -> field -> value, preserving the order the
// server sent. It is treated as immutable once built.
type MetadataDocument struct {
	Categories []Category
}

// Category returns the named category.
func (d *MetadataDocument) Category(name string) (*Category, bool) {
	for i := range d.Categories {
		if d.Categories[i].Name == name {
			return &d.Categories[i], true
		}
	}
	return nil, false
}

// Add appends a field, creating the category on first use.
func (d *MetadataDocument) Add(category, field string, value any) {
	if c, ok := d.Category(category); ok {
		c.Fields = append(c.Fields, Field{Name: field, Value: value})
		return
	}
	d.Categories = append(d.Categories, Category{
		Name:   category,
		Fields: []Field{{Name: field, Value: value}},
	})
}

// FieldCount returns the number of fields across all categories.
func (d *MetadataDocument) FieldCount() int {
	n := 0
	for _, c := range d.Categories {
		n += len(c.Fields)
	}
	return n
}

// MarshalJSON writes the document as a JSON object in category order.
func (d MetadataDocument) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range d.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, c.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, f := range c.Fields {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, f.Name); err != nil {
				return nil, err
			}
			val, err := marshalValue(f.Value)
			if err != nil {
				return nil, fmt.Errorf("encoding %s.%s: %w", c.Name, f.Name, err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a category -> field -> value object keeping key order.
func (d *MetadataDocument) UnmarshalJSON(data []byte) error {
	d.Categories = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	ok, err := openObject(dec)
	if err != nil || !ok {
		return err
	}
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding category %q: %w", name, err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			return fmt.Errorf("decoding category %q: %w", name, err)
		}
		d.Categories = append(d.Categories, Category{Name: name, Fields: fields})
	}
	_, err = dec.Token()
	return err
}

func decodeFields(raw json.RawMessage) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	ok, err := openObject(dec)
	if err != nil || !ok {
		return nil, err
	}
	var fields []Field
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		v, err := decodeValue(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields = append(fields, Field{Name: name, Value: v})
	}
	_, err = dec.Token()
	return fields, err
}

// decodeValue keeps nested structures as raw JSON so their key order survives
// pretty-printing.
func decodeValue(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return json.RawMessage(trimmed), nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// openObject consumes '{'. It returns false for a JSON null.
func openObject(dec *json.Decoder) (bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return false, err
	}
	if tok == nil {
		return false, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return false, fmt.Errorf("expected object, got %v", tok)
	}
	return true, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	k, err := marshalValue(key)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	return nil
}

// marshalValue encodes v without HTML escaping, matching what a browser's
// JSON.stringify produces.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
