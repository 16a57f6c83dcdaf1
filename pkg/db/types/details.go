package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// DetailEntry is a single labeled attribute of an offer (brand, size, ...).
type DetailEntry struct {
	Label string
	Value string
}

// OfferDetails is the ordered attribute list attached to an offer. The
// order is fixed at publish time and meaningful for display, so the JSON
// form is an array of single-key objects rather than one flat object.
type OfferDetails []DetailEntry

// MarshalJSON renders [{"MARQUE":"..."},{"TAILLE":"..."},...].
func (d OfferDetails) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, entry := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		label, err := json.Marshal(entry.Label)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Value)
		if err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		buf.Write(label)
		buf.WriteByte(':')
		buf.Write(value)
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON walks the token stream so entry order survives the trip
// through encoding/json (map-based decoding would scramble it).
func (d *OfferDetails) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("offer details: expected array, got %v", tok)
	}

	var entries OfferDetails
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); !ok || delim != '{' {
			return fmt.Errorf("offer details: expected object, got %v", tok)
		}

		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("offer details: expected string key, got %v", keyTok)
			}
			var value string
			if err := dec.Decode(&value); err != nil {
				return fmt.Errorf("offer details: value for %q: %w", key, err)
			}
			entries = append(entries, DetailEntry{Label: key, Value: value})
		}

		if _, err := dec.Token(); err != nil { // closing '}'
			return err
		}
	}

	if _, err := dec.Token(); err != nil { // closing ']'
		return err
	}

	*d = entries
	return nil
}

// Value marshals the details into their jsonb representation.
func (d OfferDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan decodes a jsonb column back into the ordered list.
func (d *OfferDetails) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}

	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("offer details: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, d)
}
