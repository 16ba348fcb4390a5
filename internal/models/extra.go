package models

import (
	"bytes"
	"encoding/json"
	"maps"
	"sort"
)

// Extra holds JSON members a record carries beyond its known fields, e.g. "leagueType"
// written by older dashboard builds. They are stored and returned untouched.
type Extra map[string]json.RawMessage

// recordKeys are the members owned by Prediction; they never land in Extra
var recordKeys = map[string]bool{
	"id": true, "match": true, "prediction": true, "odds": true, "probability": true,
	"category": true, "date": true, "status": true, "featured": true, "note": true,
	"createdAt": true, "updatedAt": true,
}

// splitExtra returns the members of the JSON object data whose keys are not reserved
func splitExtra(data []byte, reserved map[string]bool) (Extra, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for k := range raw {
		if reserved[k] {
			delete(raw, k)
		}
	}
	if len(raw) == 0 {
		return nil, nil
	}
	return Extra(raw), nil
}

// withExtra appends the extra members, sorted by key, to the encoded object base.
// Reserved keys are skipped so known fields always win.
func withExtra(base []byte, extra Extra, reserved map[string]bool) ([]byte, error) {
	if len(extra) == 0 {
		return base, nil
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return base, nil
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(bytes.TrimSuffix(bytes.TrimSpace(base), []byte("}")))
	empty := bytes.Equal(bytes.TrimSpace(base), []byte("{}"))
	for i, k := range keys {
		if i > 0 || !empty {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Clone returns an independent copy
func (e Extra) Clone() Extra {
	if len(e) == 0 {
		return nil
	}
	return maps.Clone(e)
}

// Encode returns the members as a JSON object, or "" when there are none
func (e Extra) Encode() (string, error) {
	if len(e) == 0 {
		return "", nil
	}
	data, err := json.Marshal(map[string]json.RawMessage(e))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeExtra parses what Encode produced
func DecodeExtra(s string) (Extra, error) {
	if s == "" {
		return nil, nil
	}
	var e map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return nil, err
	}
	if len(e) == 0 {
		return nil, nil
	}
	return Extra(e), nil
}

// wire forms without the custom methods, so encoding/json handles the known fields
type (
	predictionWire      Prediction
	predictionInputWire PredictionInput
	predictionPatchWire PredictionPatch
)

// MarshalJSON writes the known fields followed by any extra members
func (p Prediction) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(predictionWire(p))
	if err != nil {
		return nil, err
	}
	return withExtra(base, p.Extra, recordKeys)
}

// UnmarshalJSON reads the known fields and keeps every other member in Extra
func (p *Prediction) UnmarshalJSON(data []byte) error {
	var w predictionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := splitExtra(data, recordKeys)
	if err != nil {
		return err
	}
	*p = Prediction(w)
	p.Extra = extra
	return nil
}

func (in PredictionInput) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(predictionInputWire(in))
	if err != nil {
		return nil, err
	}
	return withExtra(base, in.Extra, recordKeys)
}

// UnmarshalJSON keeps unknown members for the stored record. A client-sent id or
// timestamp is reserved and dropped.
func (in *PredictionInput) UnmarshalJSON(data []byte) error {
	var w predictionInputWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := splitExtra(data, recordKeys)
	if err != nil {
		return err
	}
	*in = PredictionInput(w)
	in.Extra = extra
	return nil
}

func (patch PredictionPatch) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(predictionPatchWire(patch))
	if err != nil {
		return nil, err
	}
	return withExtra(base, patch.Extra, recordKeys)
}

func (patch *PredictionPatch) UnmarshalJSON(data []byte) error {
	var w predictionPatchWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	extra, err := splitExtra(data, recordKeys)
	if err != nil {
		return err
	}
	*patch = PredictionPatch(w)
	patch.Extra = extra
	return nil
}
