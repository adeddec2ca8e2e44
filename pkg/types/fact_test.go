package types

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestFactRecordDocument(t *testing.T) {
	record := FactRecord{
		Facts: map[string]string{
			"venue": "City Hall",
			"date":  "2025-03-15",
			"topic": "Launch event",
		},
		Caption: "Big day!",
	}

	doc := record.Document()
	assert.Equal(t, "Date: 2025-03-15\nTopic: Launch event\nVenue: City Hall\nCaption: Big day!", doc)
}

func TestFactRecordDocumentIsDeterministic(t *testing.T) {
	record := FactRecord{
		Facts:   map[string]string{"b": "2", "a": "1", "c": "3"},
		Caption: "caption",
	}
	first := record.Document()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, record.Document())
	}
}

func TestFactRecordCaptionTruncated(t *testing.T) {
	record := FactRecord{Caption: strings.Repeat("x", 500)}
	doc := record.Document()
	assert.Equal(t, "Caption: "+strings.Repeat("x", 200), doc)
}

func TestFactRecordCaptionTruncatedOnRunes(t *testing.T) {
	record := FactRecord{Caption: strings.Repeat("é", 300)}
	doc := record.Document()
	assert.Equal(t, "Caption: "+strings.Repeat("é", 200), doc)
	assert.True(t, utf8.ValidString(doc))
}

func TestFactRecordIsEmpty(t *testing.T) {
	assert.True(t, FactRecord{}.IsEmpty())
	assert.False(t, FactRecord{Caption: "c"}.IsEmpty())
	assert.False(t, FactRecord{Facts: map[string]string{"k": "v"}}.IsEmpty())
}
