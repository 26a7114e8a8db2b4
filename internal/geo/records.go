package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/zhe.chen/agent-geo-director/internal/modeltext"
	"github.com/zhe.chen/agent-geo-director/pkg/types"
)

// ErrContract marks a model response that violates the extractor contract.
// Callers degrade it to an empty record list; it never fails a request.
var ErrContract = fmt.Errorf("extractor contract violation")

// CoerceRecord validates one candidate location object. A record is accepted
// only when its name is non-empty after trimming; latitude and longitude are
// coerced to float and left absent when null, missing, or unparsable.
func CoerceRecord(raw map[string]any) (types.LocationRecord, bool) {
	name, _ := raw["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return types.LocationRecord{}, false
	}

	return types.LocationRecord{
		Name:      name,
		Latitude:  coerceFloat(raw["latitude"]),
		Longitude: coerceFloat(raw["longitude"]),
	}, true
}

func coerceFloat(v any) *float64 {
	switch t := v.(type) {
	case float64:
		return &t
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// ParseSingleResponse parses a per-image response: a single JSON object with
// name, latitude, and longitude keys (nulls allowed for coordinates).
func ParseSingleResponse(raw string) (types.LocationRecord, error) {
	text := modeltext.StripCodeFence(raw)
	if text == "" {
		return types.LocationRecord{}, fmt.Errorf("%w: empty response", ErrContract)
	}

	obj, err := decodeObject([]byte(text))
	if err != nil {
		return types.LocationRecord{}, fmt.Errorf("%w: %v", ErrContract, err)
	}

	rec, ok := CoerceRecord(obj)
	if !ok {
		return types.LocationRecord{}, fmt.Errorf("%w: missing or empty name", ErrContract)
	}
	return rec, nil
}

// ParseBatchedResponse parses a batched response: a JSON object whose single
// "locations" key holds an array of candidate records. Elements without a
// usable name are discarded; surviving records keep the array order.
func ParseBatchedResponse(raw string) ([]types.LocationRecord, error) {
	text := modeltext.StripCodeFence(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", ErrContract)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContract, err)
	}

	rawLocations, ok := envelope["locations"]
	if !ok {
		return nil, fmt.Errorf("%w: missing locations key", ErrContract)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawLocations, &items); err != nil {
		return nil, fmt.Errorf("%w: locations is not an array", ErrContract)
	}

	records := make([]types.LocationRecord, 0, len(items))
	for _, item := range items {
		obj, err := decodeObject(item)
		if err != nil {
			continue
		}
		if rec, ok := CoerceRecord(obj); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// decodeObject parses one JSON object keeping numbers as json.Number, so
// coordinate coercion sees the model's literal digits rather than an eager
// float64 conversion.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}
