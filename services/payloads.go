package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs the struct tags of a request payload.
func Validate(payload interface{}) error {
	return validate.Struct(payload)
}

// decodeList accepts either a bare JSON array or an object wrapping the
// array under one of keys. Endpoint responses are owned by the backend and
// both shapes are seen in practice.
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []T{}, nil
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode list wrapper: %w", err)
	}
	for _, key := range keys {
		if inner, ok := wrapper[key]; ok {
			return decodeList[T](inner)
		}
	}
	return nil, fmt.Errorf("list response has none of the keys %v", keys)
}

// decodeObject accepts either the object itself or the object wrapped under
// one of keys.
func decodeObject[T any](raw json.RawMessage, keys ...string) (*T, error) {
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	for _, key := range keys {
		if inner, ok := wrapper[key]; ok && len(inner) > 0 && inner[0] == '{' {
			raw = inner
			break
		}
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode object: %w", err)
	}
	return &out, nil
}
