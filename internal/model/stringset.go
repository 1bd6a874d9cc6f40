package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// StringSet is a sorted set of short labels stored as a JSON array.
type StringSet []string

// NewStringSet trims, drops empty values, de-duplicates and sorts.
func NewStringSet(values ...string) StringSet {
	set := mapset.NewThreadUnsafeSet[string]()
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set.Add(v)
		}
	}

	out := StringSet(set.ToSlice())
	slices.Sort(out)

	return out
}

// Equal reports whether both sets hold the same labels.
func (s StringSet) Equal(other StringSet) bool {
	return mapset.NewThreadUnsafeSet([]string(s)...).Equal(mapset.NewThreadUnsafeSet([]string(other)...))
}

func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (s *StringSet) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = StringSet{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to scan StringSet: unsupported type")
	}

	if len(data) == 0 {
		*s = StringSet{}
		return nil
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = NewStringSet(values...)

	return nil
}
