package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Timestamp — время комментария.
// Пишется как BSON DateTime; читается также из строк, которые оставили
// прежние версии бэкенда: RFC3339 ("...123Z") и ISO без зоны
// ("2024-05-01T10:00:00.123456", считается UTC).
// В JSON сериализуется как time.Time (RFC3339).
type Timestamp struct {
	time.Time
}

// NewTimestamp — обёртка над t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

var legacyLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// MarshalBSONValue реализует bson.ValueMarshaler.
func (t Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.NewDateTimeFromTime(t.Time))
}

// UnmarshalBSONValue реализует bson.ValueUnmarshaler.
func (t *Timestamp) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: typ, Value: data}

	switch typ {
	case bson.TypeDateTime:
		ms, ok := rv.DateTimeOK()
		if !ok {
			return fmt.Errorf("timestamp: malformed datetime")
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	case bson.TypeString:
		s, ok := rv.StringValueOK()
		if !ok {
			return fmt.Errorf("timestamp: malformed string")
		}
		parsed, err := parseTimestamp(s)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	case bson.TypeNull, bson.TypeUndefined:
		t.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("timestamp: unsupported bson type %s", typ)
	}
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for _, layout := range legacyLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("timestamp: unrecognized format %q", s)
}
