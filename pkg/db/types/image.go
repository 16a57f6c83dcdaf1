package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ImageDescriptor is the durable result returned by the media upload
// gateway for a stored image. Persisted as a jsonb column.
type ImageDescriptor struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Format    string `json:"format,omitempty"`
	Bytes     int64  `json:"bytes,omitempty"`
}

// Value marshals the descriptor into its jsonb representation.
func (d ImageDescriptor) Value() (driver.Value, error) {
	return json.Marshal(d)
}

// Scan decodes a jsonb column back into the descriptor.
func (d *ImageDescriptor) Scan(value interface{}) error {
	if value == nil {
		*d = ImageDescriptor{}
		return nil
	}

	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("image descriptor: unsupported scan type %T", value)
	}
	return json.Unmarshal(raw, d)
}

func toBytes(value interface{}) ([]byte, bool) {
	switch v := value.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
