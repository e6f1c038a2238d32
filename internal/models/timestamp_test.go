package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// legacyPost — документ в том виде, в каком его могли оставить прежние версии бэкенда.
func legacyPost(t *testing.T, date any) []byte {
	t.Helper()

	raw, err := bson.Marshal(bson.M{
		"slug":  "hello",
		"views": 1,
		"likes": 0,
		"comments": bson.A{bson.M{
			"id":      "c1",
			"name":    "A",
			"text":    "hi",
			"date":    date,
			"replies": bson.A{},
		}},
	})
	require.NoError(t, err)
	return raw
}

func TestTimestamp_DecodesStoredForms(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC)

	cases := map[string]any{
		"bson datetime":    want,
		"rfc3339 with Z":   "2024-05-01T10:00:00.123Z",
		"iso without zone": "2024-05-01T10:00:00.123000",
		"rfc3339 offset":   "2024-05-01T13:00:00.123+03:00",
	}

	for name, date := range cases {
		t.Run(name, func(t *testing.T) {
			var p Post
			require.NoError(t, bson.Unmarshal(legacyPost(t, date), &p))
			require.Len(t, p.Comments, 1)
			require.True(t, want.Equal(p.Comments[0].Date.Time), p.Comments[0].Date.Time)
			require.Equal(t, time.UTC, p.Comments[0].Date.Location())
		})
	}
}

func TestTimestamp_MicrosecondsWithoutZone(t *testing.T) {
	t.Parallel()

	var p Post
	require.NoError(t, bson.Unmarshal(legacyPost(t, "2024-05-01T10:00:00.123456"), &p))
	require.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), p.Comments[0].Date.Time)
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	t.Parallel()

	var p Post
	require.Error(t, bson.Unmarshal(legacyPost(t, "yesterday"), &p))
	require.Error(t, bson.Unmarshal(legacyPost(t, int32(5)), &p))
}

func TestTimestamp_NullIsZero(t *testing.T) {
	t.Parallel()

	var p Post
	require.NoError(t, bson.Unmarshal(legacyPost(t, nil), &p))
	require.True(t, p.Comments[0].Date.IsZero())
}

func TestTimestamp_WritesDateTimeAndJSON(t *testing.T) {
	t.Parallel()

	ts := NewTimestamp(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	raw, err := bson.Marshal(Comment{ID: "c1", Date: ts})
	require.NoError(t, err)
	require.Equal(t, bson.TypeDateTime, bson.Raw(raw).Lookup("date").Type)

	out, err := json.Marshal(Comment{ID: "c1", Date: ts, Replies: []Comment{}})
	require.NoError(t, err)
	require.Contains(t, string(out), `"date":"2024-05-01T10:00:00Z"`)
}
