package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionKeepsUnknownMembers(t *testing.T) {
	data := []byte(`{"id":"p1","match":"A vs B","odds":"2.0","status":"Won","leagueType":"EPL","tags":["x",1],"createdAt":"2024-03-09T18:22:01.123Z","updatedAt":"2024-03-09T18:22:01.123Z"}`)

	var p Prediction
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, StatusWon, p.Status)
	require.Len(t, p.Extra, 2)
	assert.JSONEq(t, `"EPL"`, string(p.Extra["leagueType"]))

	out, err := json.Marshal(p)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "EPL", decoded["leagueType"])
	assert.Equal(t, []interface{}{"x", float64(1)}, decoded["tags"])
	assert.Equal(t, "p1", decoded["id"])
}

func TestPredictionWithoutExtraEncodesKnownFieldsOnly(t *testing.T) {
	p := Prediction{ID: "p1", Match: "A vs B", Status: StatusPending}
	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded, 12)

	var back Prediction
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Nil(t, back.Extra)
}

func TestKnownFieldsWinOverExtra(t *testing.T) {
	p := Prediction{ID: "real", Extra: Extra{"id": json.RawMessage(`"fake"`), "league": json.RawMessage(`"EPL"`)}}
	out, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "real", decoded["id"])
	assert.Equal(t, "EPL", decoded["league"])
}

func TestInputDropsReservedMembersAndKeepsTheRest(t *testing.T) {
	var in PredictionInput
	require.NoError(t, json.Unmarshal([]byte(`{"id":"client","createdAt":"1999-01-01T00:00:00Z","category":"freeTips","match":"A vs B","leagueType":"EPL"}`), &in))
	assert.Equal(t, "freeTips", in.Category)
	require.Len(t, in.Extra, 1)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := in.NewPrediction("server-id", "freeTips", now)
	assert.Equal(t, "server-id", p.ID)
	assert.JSONEq(t, `"EPL"`, string(p.Extra["leagueType"]))

	// the record owns its own copy
	p.Extra["leagueType"] = json.RawMessage(`"LaLiga"`)
	assert.JSONEq(t, `"EPL"`, string(in.Extra["leagueType"]))
}

func TestPatchMergesExtraMembers(t *testing.T) {
	var patch PredictionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"category":"bankerTips","note":"n","leagueType":"Serie A","round":3}`), &patch))
	assert.Equal(t, "bankerTips", patch.Category)
	require.NotNil(t, patch.Note)

	p := Prediction{ID: "x", Category: "freeTips", Extra: Extra{"leagueType": json.RawMessage(`"EPL"`), "kickoff": json.RawMessage(`"20:00"`)}}
	original := p.Extra
	patch.Apply(&p, time.Now())

	assert.Equal(t, "freeTips", p.Category)
	assert.JSONEq(t, `"Serie A"`, string(p.Extra["leagueType"]))
	assert.JSONEq(t, `3`, string(p.Extra["round"]))
	assert.JSONEq(t, `"20:00"`, string(p.Extra["kickoff"]))
	assert.JSONEq(t, `"EPL"`, string(original["leagueType"]))
}

func TestExtraEncodeDecode(t *testing.T) {
	s, err := Extra(nil).Encode()
	require.NoError(t, err)
	assert.Empty(t, s)

	e, err := DecodeExtra("")
	require.NoError(t, err)
	assert.Nil(t, e)

	s, err = Extra{"leagueType": json.RawMessage(`"EPL"`)}.Encode()
	require.NoError(t, err)
	e, err = DecodeExtra(s)
	require.NoError(t, err)
	assert.JSONEq(t, `"EPL"`, string(e["leagueType"]))
}
