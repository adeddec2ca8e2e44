package types

import (
	"fmt"
	"sort"
	"strings"
)

// FactRecord is the compact structured output of the vision pass over a
// post: a handful of short named facts plus the original caption. It only
// lives inside one ingestion call, its document form is what gets embedded.
type FactRecord struct {
	Facts    map[string]string `json:"facts"`
	Caption  string            `json:"caption"`
	Platform string            `json:"platform"`
}

const factCaptionLimit = 200

// Document renders the record as the minimal structured text handed to the
// embedder. Keys are sorted so re-ingestion embeds identical content.
func (f FactRecord) Document() string {
	b := strings.Builder{}
	keys := make([]string, 0, len(f.Facts))
	for k := range f.Facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if f.Facts[k] == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("%s: %s\n", titleKey(k), f.Facts[k]))
	}
	caption := f.Caption
	// cut on runes, a byte slice could split an emoji or accent mid-sequence
	if r := []rune(caption); len(r) > factCaptionLimit {
		caption = string(r[:factCaptionLimit])
	}
	b.WriteString("Caption: ")
	b.WriteString(caption)
	return b.String()
}

func (f FactRecord) IsEmpty() bool {
	return len(f.Facts) == 0 && f.Caption == ""
}

func titleKey(k string) string {
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + k[1:]
}
