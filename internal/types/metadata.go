package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a string key/value map persisted as a JSONB column.
type Metadata map[string]string

// Scan implements sql.Scanner. A NULL column yields an empty map.
func (m *Metadata) Scan(src interface{}) error {
	if src == nil {
		*m = Metadata{}
		return nil
	}

	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", src)
	}

	decoded := Metadata{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*m = decoded
	return nil
}

// Value implements driver.Valuer. A nil map is stored as an empty object so
// the column never holds SQL NULL.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		m = Metadata{}
	}
	return json.Marshal(m)
}
