package models

import (
	"bytes"
	"encoding/json"
)

// FlexStringList decodes either a single JSON string or a list of strings.
type FlexStringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *FlexStringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = FlexStringList{single}
	return nil
}
