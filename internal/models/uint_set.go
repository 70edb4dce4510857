package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// UintSet stores a set of user IDs as a JSON array in a text column.
type UintSet []uint

// Value implements driver.Valuer.
func (s UintSet) Value() (driver.Value, error) {
	if s == nil {
		s = UintSet{}
	}
	b, err := json.Marshal([]uint(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *UintSet) Scan(value interface{}) error {
	if value == nil {
		*s = UintSet{}
		return nil
	}
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), (*[]uint)(s))
	case []byte:
		return json.Unmarshal(v, (*[]uint)(s))
	default:
		return fmt.Errorf("cannot scan %T into UintSet", value)
	}
}

// Contains reports whether id is in the set.
func (s UintSet) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}
