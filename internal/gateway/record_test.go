package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRecordFloatCoercion(t *testing.T) {
	rec := Record{
		"a": 1.5,
		"b": 3,
		"c": "2.75",
		"d": " 10 ",
		"e": "abc",
	}
	assert.Equal(t, 1.5, rec.Float("a"))
	assert.Equal(t, 3.0, rec.Float("b"))
	assert.Equal(t, 2.75, rec.Float("c"))
	assert.Equal(t, 10.0, rec.Float("d"))
	assert.Equal(t, 0.0, rec.Float("e"))
	assert.Equal(t, 0.0, rec.Float("missing"))
}

func TestRecordTime(t *testing.T) {
	rec := Record{
		"stamp": "2024-03-05T10:30:00Z",
		"date":  "2024-03-05",
		"junk":  "yesterday",
	}
	assert.Equal(t, time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC), rec.Time("stamp"))
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), rec.Time("date"))
	assert.True(t, rec.Time("junk").IsZero())
	assert.True(t, rec.Time("missing").IsZero())
}

func TestRecordTags(t *testing.T) {
	rec := Record{"Tags": "vip, renewal ,,priority"}
	assert.Equal(t, []string{"vip", "renewal", "priority"}, rec.Tags("Tags"))
	assert.Nil(t, Record{}.Tags("Tags"))
}

func TestRecordRelationShapes(t *testing.T) {
	cases := []struct {
		name   string
		value  any
		want   Relation
		wantOK bool
	}{
		{"raw float id", float64(42), Relation{ID: 42}, true},
		{"raw int id", 42, Relation{ID: 42}, true},
		{"numeric string", "42", Relation{ID: 42}, true},
		{"expanded object", map[string]any{"Id": float64(42), "Name": "Acme"}, Relation{ID: 42, Name: "Acme"}, true},
		{"empty object", map[string]any{}, Relation{}, false},
		{"null", nil, Relation{}, false},
		{"garbage string", "none", Relation{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rel, ok := Record{"contact_id": tc.value}.Relation("contact_id")
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, rel)
		})
	}
}

func TestRecordRelationID(t *testing.T) {
	assert.Equal(t, 7, Record{"deal_id": float64(7)}.RelationID("deal_id"))
	assert.Equal(t, 0, Record{}.RelationID("deal_id"))
}

func TestRecordID(t *testing.T) {
	// Decoded JSON carries ids as float64.
	assert.Equal(t, 9, Record{"Id": float64(9)}.ID())
	rec := Record{}
	rec.SetID(4)
	assert.Equal(t, 4, rec.ID())
}
