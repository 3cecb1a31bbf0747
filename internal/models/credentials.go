package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// CredentialsMap is an opaque provider credential blob stored as JSONB.
type CredentialsMap map[string]string

func (c CredentialsMap) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

func (c *CredentialsMap) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	case nil:
		*c = CredentialsMap{}
		return nil
	default:
		return fmt.Errorf("unsupported credentials type %T", src)
	}
}

// Masked returns a copy safe for list responses: every value is replaced by
// its first two characters followed by asterisks.
func (c CredentialsMap) Masked() CredentialsMap {
	masked := make(CredentialsMap, len(c))
	for k, v := range c {
		if len(v) > 2 {
			masked[k] = v[:2] + "********"
		} else {
			masked[k] = "********"
		}
	}
	return masked
}
