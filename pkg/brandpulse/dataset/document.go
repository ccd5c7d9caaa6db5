package dataset

import (
	"encoding/json"
	"fmt"

	"github.com/cognicore/brandpulse/pkg/brandpulse/artifact"
	"github.com/cognicore/brandpulse/pkg/brandpulse/internalerr"
)

// Document is a dataset file opened for in-place enrichment. It keeps the
// decoded JSON tree next to the typed view so Save only adds city
// coordinates: fields outside the schema, rating spellings, missing
// sentiments and markup are written back as read.
type Document struct {
	root   map[string]json.RawMessage
	states []rawState
	ds     *Dataset
}

type rawState struct {
	fields map[string]json.RawMessage
	cities []map[string]json.RawMessage
}

// LoadDocument reads path for enrichment. The typed view is not normalized.
// Missing files wrap internalerr.ErrNotFound; undecodable ones
// internalerr.ErrUnreadable.
func LoadDocument(path string) (*Document, error) {
	var ds Dataset
	if err := artifact.ReadJSON(path, &ds); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	var root map[string]json.RawMessage
	if err := artifact.ReadJSON(path, &root); err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	states, err := decodeStates(root["states"])
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w: %s: %v", internalerr.ErrUnreadable, path, err)
	}
	if len(states) != len(ds.States) {
		return nil, fmt.Errorf("load dataset: %w: %s: state count mismatch", internalerr.ErrUnreadable, path)
	}
	for i := range states {
		if len(states[i].cities) != len(ds.States[i].Cities) {
			return nil, fmt.Errorf("load dataset: %w: %s: city count mismatch in %q", internalerr.ErrUnreadable, path, ds.States[i].State)
		}
	}
	return &Document{root: root, states: states, ds: &ds}, nil
}

func decodeStates(raw json.RawMessage) ([]rawState, error) {
	if isNull(raw) {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	states := make([]rawState, len(items))
	for i, item := range items {
		if isNull(item) {
			continue
		}
		st := &states[i]
		if err := json.Unmarshal(item, &st.fields); err != nil {
			return nil, err
		}
		if cities := st.fields["cities"]; !isNull(cities) {
			if err := json.Unmarshal(cities, &st.cities); err != nil {
				return nil, err
			}
		}
	}
	return states, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// Dataset returns the typed view. Coordinates set on its cities are picked
// up by Save.
func (d *Document) Dataset() *Dataset {
	return d.ds
}

// Save writes the document to path with the typed view's city coordinates
// merged in.
func (d *Document) Save(path string) error {
	if err := d.merge(); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return artifact.WriteJSON(path, d.root, artifact.IndentSummary)
}

func (d *Document) merge() error {
	if d.root == nil || d.states == nil {
		return nil
	}

	states := make([]json.RawMessage, len(d.states))
	for si := range d.states {
		raw := &d.states[si]
		if raw.fields != nil && raw.cities != nil {
			for ci, fields := range raw.cities {
				city := &d.ds.States[si].Cities[ci]
				if fields == nil || !city.HasCoords() {
					continue
				}
				if err := setField(fields, "city_lat", *city.CityLat); err != nil {
					return err
				}
				if err := setField(fields, "city_lon", *city.CityLon); err != nil {
					return err
				}
			}
			if err := setField(raw.fields, "cities", raw.cities); err != nil {
				return err
			}
		}
		b, err := encode(raw.fields)
		if err != nil {
			return err
		}
		states[si] = b
	}
	return setField(d.root, "states", states)
}

func setField(m map[string]json.RawMessage, key string, v any) error {
	b, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m[key] = b
	return nil
}

// encode keeps HTML escaping off so untouched strings keep their spelling.
func encode(v any) (json.RawMessage, error) {
	return artifact.Marshal(v, "")
}
