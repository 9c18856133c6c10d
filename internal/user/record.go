package user

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a record. The endpoint sends numeric ids, but string ids are
// accepted too and normalise to the same key ("1" and 1 collide).
type ID string

// UnmarshalJSON accepts a JSON number, string, boolean or null. Numbers are
// keyed by value, so 1, 1.0 and 1e0 are the same id.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}

	if bytes.Equal(data, []byte("true")) || bytes.Equal(data, []byte("false")) {
		*id = ID(data)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = normalizeNumber(n)
	return nil
}

func normalizeNumber(n json.Number) ID {
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		return ID(strconv.FormatInt(i, 10))
	}
	f, err := n.Float64()
	if err != nil {
		return ID(n.String())
	}
	return ID(strconv.FormatFloat(f, 'f', -1, 64))
}

// String returns the id as text
func (id ID) String() string {
	return string(id)
}

// Record is a raw user object as returned by the remote endpoint
type Record struct {
	ID       ID     `json:"id" yaml:"id"`
	Name     string `json:"name,omitempty" yaml:"name,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
}

// DecodeRecords parses a JSON array of records
func DecodeRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}
