package fieldmapping

import (
	"fmt"
	"strings"
)

// MappingKey returns the key of the value set used for field. It is "Id" for
// every known field.
func MappingKey(field FieldID) (string, error) {
	if _, ok := fieldNames[field]; !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedField, int(field))
	}
	return "Id", nil
}

// Resolve builds the raw value lookup for the given external system out of all
// known field mappings. Fields without a mapping for the system are left out.
func Resolve(system ExternalSystemID, all []FieldMapping) (Mappings, error) {
	byField := make(map[FieldID]FieldMapping, len(all))
	for _, fm := range all {
		byField[fm.ID] = fm
	}

	out := make(Mappings)
	for _, field := range KnownFields() {
		fm, ok := byField[field]
		if !ok {
			continue
		}
		key, err := MappingKey(field)
		if err != nil {
			return nil, err
		}
		values, ok := lookup(fm, system, key)
		if !ok {
			continue
		}
		out[field] = values
	}
	return out, nil
}

func lookup(fm FieldMapping, system ExternalSystemID, key string) (map[string]int, bool) {
	for _, esm := range fm.ExternalSystems {
		if esm.ID != system {
			continue
		}
		for _, m := range esm.Mappings {
			if !strings.EqualFold(m.Key, key) {
				continue
			}
			values := make(map[string]int, len(m.Values))
			for _, v := range m.Values {
				values[normalize(v.Value)] = v.InternalID
			}
			return values, true
		}
	}
	return nil, false
}

// Require fails with a *MissingFieldError naming the first field absent from m.
func Require(m Mappings, system ExternalSystemID, fields ...FieldID) error {
	for _, f := range fields {
		if _, err := MappingKey(f); err != nil {
			return err
		}
		if _, ok := m[f]; !ok {
			return &MissingFieldError{Field: f, ExternalSystemID: system}
		}
	}
	return nil
}

// Lookup translates a raw value. ok is false when the field has no mapping or
// the value is unknown.
func (m Mappings) Lookup(field FieldID, raw string) (int, bool) {
	values, ok := m[field]
	if !ok {
		return 0, false
	}
	id, ok := values[normalize(raw)]
	return id, ok
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
