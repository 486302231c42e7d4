package services

import (
	"encoding/json"
	"strings"

	apperrors "github.com/servicios-app/backend/pkg/errors"
)

// requiredField names an input field and whether a usable value was supplied
type requiredField struct {
	name    string
	present bool
}

func stringField(name string, value *string) requiredField {
	return requiredField{name: name, present: value != nil && strings.TrimSpace(*value) != ""}
}

func presentField[T any](name string, value *T) requiredField {
	return requiredField{name: name, present: value != nil}
}

// checkRequired returns a validation error listing every absent field in order
func checkRequired(fields ...requiredField) error {
	var missing []string
	for _, f := range fields {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFieldsError(missing)
	}
	return nil
}

func valueOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}

// NullableString tells an explicit JSON null apart from an absent field. Set is true
// whenever the field appeared in the payload; Value is nil for null.
type NullableString struct {
	Set   bool
	Value *string
}

// NewNullableString returns a set, non-null value
func NewNullableString(value string) NullableString {
	return NullableString{Set: true, Value: &value}
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}
