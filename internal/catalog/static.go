package catalog

import (
	"context"
	"fmt"
	"sort"
)

// DefaultEntries is the built-in medicine list used when no database is
// configured and by the seeder.
var DefaultEntries = []Entry{
	{ID: "med_001", ChineseName: "人参", EnglishName: "Ginseng", PinyinName: "ren shen", PricePerGram: 15.0},
	{ID: "med_002", ChineseName: "当归", EnglishName: "Angelica Root", PinyinName: "dang gui", PricePerGram: 3.5},
	{ID: "med_003", ChineseName: "黄芪", EnglishName: "Astragalus Root", PinyinName: "huang qi", PricePerGram: 2.8},
	{ID: "med_004", ChineseName: "川芎", EnglishName: "Szechwan Lovage Rhizome", PinyinName: "chuan xiong", PricePerGram: 3.2},
	{ID: "med_005", ChineseName: "甘草", EnglishName: "Licorice Root", PinyinName: "gan cao", PricePerGram: 1.5},
	{ID: "med_006", ChineseName: "茯苓", EnglishName: "Poria", PinyinName: "fu ling", PricePerGram: 2.2},
	{ID: "med_007", ChineseName: "白术", EnglishName: "White Atractylodes Rhizome", PinyinName: "bai zhu", PricePerGram: 2.6},
	{ID: "med_008", ChineseName: "枸杞子", EnglishName: "Goji Berry", PinyinName: "gou qi zi", PricePerGram: 4.5},
	{ID: "med_009", ChineseName: "金银花", EnglishName: "Honeysuckle Flower", PinyinName: "jin yin hua", PricePerGram: 6.0},
	{ID: "med_010", ChineseName: "三七", EnglishName: "Notoginseng Root", PinyinName: "san qi", PricePerGram: 12.0},
	{ID: "med_011", ChineseName: "鸡血藤", EnglishName: "Spatholobus Stem", PinyinName: "ji xue teng", PricePerGram: 1.8},
	{ID: "med_012", ChineseName: "益母草", EnglishName: "Motherwort Herb", PinyinName: "yi mu cao", PricePerGram: 1.2},
}

// Static is an immutable in-memory catalog.
type Static struct {
	byID map[string]Entry
	ids  []string
}

// NewStatic copies entries into a Static catalog. Later duplicates replace
// earlier ones.
func NewStatic(entries ...Entry) *Static {
	s := &Static{byID: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, dup := s.byID[e.ID]; !dup {
			s.ids = append(s.ids, e.ID)
		}
		s.byID[e.ID] = e
	}
	sort.Strings(s.ids)
	return s
}

// Lookup returns the entry for id or ErrNotFound.
func (s *Static) Lookup(_ context.Context, id string) (Entry, error) {
	e, ok := s.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("lookup %q: %w", id, ErrNotFound)
	}
	return e, nil
}

// List returns all entries ordered by id.
func (s *Static) List(_ context.Context) ([]Entry, error) {
	out := make([]Entry, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.byID[id])
	}
	return out, nil
}
