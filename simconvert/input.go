package main

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	simtrees "github.com/grand-obs/simtrees/pkg"
)

// inputEvent is one simulated event as produced by the simulation
// post-processing scripts: one JSON object per tree, keyed by the
// field names of the schema.
type inputEvent struct {
	Shower  map[string]any `json:"shower"`
	Efield  map[string]any `json:"efield"`
	Zhaires map[string]any `json:"zhaires"`
}

// EventRecords holds the decoded records of one event.
type EventRecords struct {
	Shower  *simtrees.ShowerRecord
	Efield  *simtrees.EfieldRecord
	Zhaires *simtrees.ZHAireSExtra
}

func ReadEventFile(filename string) (EventRecords, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return EventRecords{}, fmt.Errorf("error reading event file %q: %w", filename, err)
	}
	return parseEvent(data)
}

func parseEvent(data []byte) (EventRecords, error) {
	var input inputEvent
	if err := json.Unmarshal(data, &input); err != nil {
		return EventRecords{}, fmt.Errorf("error parsing event: %w", err)
	}

	records := EventRecords{
		Shower:  simtrees.NewShowerRecord(),
		Efield:  simtrees.NewEfieldRecord(),
		Zhaires: simtrees.NewZHAireSExtra(),
	}

	if err := applyFields(records.Shower, input.Shower); err != nil {
		return EventRecords{}, err
	}
	if err := applyFields(records.Efield, input.Efield); err != nil {
		return EventRecords{}, err
	}

	// The parameter blob of the zhaires tree is a nested object, the
	// rest of the keys are plain columns.
	zhaires := make(map[string]any, len(input.Zhaires))
	for name, value := range input.Zhaires {
		if name == "other_parameters" {
			params, ok := value.(map[string]any)
			if !ok {
				return EventRecords{}, fmt.Errorf("other_parameters is %T, not an object", value)
			}
			if err := applyParameters(records.Zhaires, params); err != nil {
				return EventRecords{}, err
			}
			continue
		}
		zhaires[name] = value
	}
	if err := applyFields(records.Zhaires, zhaires); err != nil {
		return EventRecords{}, err
	}

	// du_count is implied by the ID list in the input files.
	if n := records.Efield.DuID.Len(); n > 0 {
		records.Efield.DuCount.Set(uint32(n))
	}
	return records, nil
}

// fieldSetter is the dynamic write surface shared by the records.
type fieldSetter interface {
	SetField(name string, value any) error
}

func applyFields(record fieldSetter, fields map[string]any) error {
	// Deterministic order makes rejections reproducible.
	names := maps.Keys(fields)
	slices.Sort(names)
	for _, name := range names {
		if err := record.SetField(name, normalizeJSON(fields[name])); err != nil {
			return err
		}
	}
	return nil
}

func applyParameters(record *simtrees.ZHAireSExtra, params map[string]any) error {
	keys := maps.Keys(params)
	slices.Sort(keys)
	values := make([]string, len(keys))
	for i, key := range keys {
		values[i] = fmt.Sprint(params[key])
	}
	return record.SetParameters(keys, values)
}

// normalizeJSON rewrites the []any shapes encoding/json produces into
// the slices the column gates accept: []float64, []string or
// [][]float64. Mixed or unrecognized arrays are passed through
// untouched so the column gate reports them.
func normalizeJSON(value any) any {
	arr, ok := value.([]any)
	if !ok {
		return value
	}
	if len(arr) == 0 {
		return []float64{}
	}

	switch arr[0].(type) {
	case float64:
		out := make([]float64, len(arr))
		for i, v := range arr {
			f, ok := v.(float64)
			if !ok {
				return value
			}
			out[i] = f
		}
		return out
	case string:
		out := make([]string, len(arr))
		for i, v := range arr {
			s, ok := v.(string)
			if !ok {
				return value
			}
			out[i] = s
		}
		return out
	case []any:
		out := make([][]float64, len(arr))
		for i, v := range arr {
			inner, ok := normalizeJSON(v).([]float64)
			if !ok {
				return value
			}
			out[i] = inner
		}
		return out
	}
	return value
}
