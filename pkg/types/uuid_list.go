package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUIDList is a set of identifiers persisted as a JSON array so the same
// model works against postgres (jsonb) and the sqlite test databases.
type UUIDList []uuid.UUID

// Value implements driver.Valuer.
func (l UUIDList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("marshal uuid list: %w", err)
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *UUIDList) Scan(value any) error {
	if value == nil {
		*l = UUIDList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported uuid list source %T", value)
	}

	if len(raw) == 0 {
		*l = UUIDList{}
		return nil
	}

	var parsed []uuid.UUID
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("unmarshal uuid list: %w", err)
	}
	*l = parsed
	return nil
}

// Contains reports membership of id in the list.
func (l UUIDList) Contains(id uuid.UUID) bool {
	for _, candidate := range l {
		if candidate == id {
			return true
		}
	}
	return false
}

// Intersects reports whether any of ids is present in the list.
func (l UUIDList) Intersects(ids []uuid.UUID) bool {
	for _, id := range ids {
		if l.Contains(id) {
			return true
		}
	}
	return false
}
