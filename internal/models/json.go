package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue marshals v for a JSONB column, storing NULL for nil pointers.
func jsonValue(v any) (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// jsonScan unmarshals a JSONB column into dst, leaving dst zeroed for NULL.
func jsonScan(src any, dst any) error {
	if src == nil {
		return nil
	}
	switch b := src.(type) {
	case []byte:
		return json.Unmarshal(b, dst)
	case string:
		return json.Unmarshal([]byte(b), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
}
