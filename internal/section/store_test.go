package section

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	counter := 0
	ids := func() string {
		counter++
		return fmt.Sprintf("s%d", counter)
	}
	doc := Document{WebsiteID: 1, Name: "Demo", Sections: FreshSections(ids)}
	return NewStore(doc, WithIDGenerator(ids))
}

func sectionIDs(sections []Section) []string {
	ids := make([]string, 0, len(sections))
	for _, sec := range sections {
		ids = append(ids, sec.ID)
	}
	return ids
}

func assertDenseOrder(t *testing.T, sections []Section) {
	t.Helper()
	for i, sec := range sections {
		require.Equal(t, float64(i), sec.Order, "section %s at index %d", sec.ID, i)
	}
}

func TestNewStoreSortsAndRenormalizes(t *testing.T) {
	doc := Document{Sections: []Section{
		{ID: "b", Type: TypeHero, Order: 4},
		{ID: "a", Type: TypeNavbar, Order: 1.5},
		{ID: "c", Type: TypeFooter, Order: 9},
	}}
	store := NewStore(doc)

	sections := store.Sections()
	assert.Equal(t, []string{"a", "b", "c"}, sectionIDs(sections))
	assertDenseOrder(t, sections)
}

func TestInsertAfterPlacesSectionBehindAnchor(t *testing.T) {
	store := newTestStore(t)

	created, err := store.InsertAfter(TypeServices, "s2")
	require.NoError(t, err)

	sections := store.Sections()
	assert.Equal(t, []string{"s1", "s2", created.ID, "s3", "s4", "s5", "s6"}, sectionIDs(sections))
	assert.Equal(t, float64(2), created.Order)
	assert.Equal(t, "Our Services", created.Data["title"])
	assertDenseOrder(t, sections)
}

func TestInsertAfterUnknownAnchorAppends(t *testing.T) {
	store := newTestStore(t)

	created, err := store.InsertAfter(TypeHero, "missing")
	require.NoError(t, err)

	sections := store.Sections()
	require.Len(t, sections, 7)
	assert.Equal(t, created.ID, sections[6].ID)
	assertDenseOrder(t, sections)
}

func TestInsertAfterRejectsUnknownType(t *testing.T) {
	store := newTestStore(t)

	_, err := store.InsertAfter(Type("gallery"), "s1")
	require.ErrorIs(t, err, ErrUnknownSectionType)
	assert.Len(t, store.Sections(), 6)
}

func TestInsertedDefaultsAreIndependentCopies(t *testing.T) {
	store := newTestStore(t)

	first, err := store.InsertAfter(TypeAbout, "s1")
	require.NoError(t, err)
	store.PatchArrayField(first.ID, "paragraphs", ArrayAdd, 0, "extra")

	second, err := store.InsertAfter(TypeAbout, "s1")
	require.NoError(t, err)
	assert.Len(t, second.Data["paragraphs"], 3)
}

func TestDeleteRenormalizesAndIgnoresMissing(t *testing.T) {
	store := newTestStore(t)

	store.Delete("s3")
	store.Delete("nope")

	sections := store.Sections()
	assert.Equal(t, []string{"s1", "s2", "s4", "s5", "s6"}, sectionIDs(sections))
	assertDenseOrder(t, sections)
}

func TestReorderUsesSpliceSemantics(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
		want        []string
	}{
		{name: "forward", source: "s1", destination: "s4", want: []string{"s2", "s3", "s4", "s1", "s5", "s6"}},
		{name: "backward", source: "s5", destination: "s2", want: []string{"s1", "s5", "s2", "s3", "s4", "s6"}},
		{name: "to end", source: "s2", destination: "s6", want: []string{"s1", "s3", "s4", "s5", "s6", "s2"}},
		{name: "missing source", source: "x", destination: "s2", want: []string{"s1", "s2", "s3", "s4", "s5", "s6"}},
		{name: "missing destination", source: "s2", destination: "x", want: []string{"s1", "s2", "s3", "s4", "s5", "s6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			store.Reorder(tt.source, tt.destination)

			sections := store.Sections()
			if diff := cmp.Diff(tt.want, sectionIDs(sections)); diff != "" {
				t.Fatalf("unexpected order (-want +got):\n%s", diff)
			}
			assertDenseOrder(t, sections)
		})
	}
}

func TestMoveUpAndDownStopAtBoundaries(t *testing.T) {
	store := newTestStore(t)

	store.MoveUp("s1")
	store.MoveDown("s6")
	assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5", "s6"}, sectionIDs(store.Sections()))

	store.MoveUp("s3")
	store.MoveDown("s4")
	assert.Equal(t, []string{"s1", "s3", "s2", "s5", "s4", "s6"}, sectionIDs(store.Sections()))
}

func TestStructuralEditsKeepOrdersDense(t *testing.T) {
	store := newTestStore(t)
	rng := rand.New(rand.NewSource(42))
	types := Types()

	for step := 0; step < 500; step++ {
		sections := store.Sections()
		pick := func() string {
			if len(sections) == 0 {
				return ""
			}
			return sections[rng.Intn(len(sections))].ID
		}

		switch rng.Intn(3) {
		case 0:
			_, err := store.InsertAfter(types[rng.Intn(len(types))], pick())
			require.NoError(t, err)
		case 1:
			store.Delete(pick())
		case 2:
			store.Reorder(pick(), pick())
		}

		after := store.Sections()
		assertDenseOrder(t, after)
		assert.Len(t, IDs(after), len(after), "duplicate ids after step %d", step)
	}
}

func TestPatchDataShallowMerges(t *testing.T) {
	store := newTestStore(t)

	store.PatchData("s2", Data{"title": "New title", "extra": 1})

	hero, ok := store.Section("s2")
	require.True(t, ok)
	assert.Equal(t, "New title", hero.Data["title"])
	assert.Equal(t, 1, hero.Data["extra"])
	assert.Equal(t, "Discover amazing places", hero.Data["subtitle"])
}

func TestPatchArrayFieldOperations(t *testing.T) {
	store := newTestStore(t)

	store.PatchArrayField("s2", "paragraphs", ArrayAdd, 0, "Second")
	store.PatchArrayField("s2", "ctaButtons", ArrayUpdate, 1, map[string]any{"text": "Contact"})
	store.PatchArrayField("s2", "ctaButtons", ArrayRemove, 0, nil)
	store.PatchArrayField("s2", "ctaButtons", ArrayRemove, 7, nil)

	hero, _ := store.Section("s2")
	assert.Equal(t, []any{"Start your journey today with our exclusive tour packages.", "Second"}, hero.Data["paragraphs"])
	assert.Equal(t, []any{map[string]any{"text": "Contact", "url": "#about", "variant": "outline"}}, hero.Data["ctaButtons"])
}

func TestPatchArrayFieldStringUpdateRules(t *testing.T) {
	store := newTestStore(t)
	store.PatchData("s3", Data{"paragraphs": []any{
		"plain",
		map[string]any{"text": "old", "style": "lead"},
		map[string]any{"content": "old"},
		map[string]any{"0": "H", "1": "i"},
	}})

	for i, value := range []string{"one", "two", "three", "four"} {
		store.PatchArrayField("s3", "paragraphs", ArrayUpdate, i, value)
	}

	about, _ := store.Section("s3")
	want := []any{
		"one",
		map[string]any{"text": "two", "style": "lead"},
		map[string]any{"content": "three"},
		"four",
	}
	if diff := cmp.Diff(want, about.Data["paragraphs"]); diff != "" {
		t.Fatalf("unexpected paragraphs (-want +got):\n%s", diff)
	}
}

func TestPatchArrayFieldMissingFieldStartsEmpty(t *testing.T) {
	store := newTestStore(t)

	store.PatchArrayField("s3", "teamMembers", ArrayAdd, 0, map[string]any{"name": "Ana"})

	about, _ := store.Section("s3")
	assert.Equal(t, []any{map[string]any{"name": "Ana"}}, about.Data["teamMembers"])
}

func TestMutationsTouchLastUpdated(t *testing.T) {
	current := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }
	store := NewStore(Document{Sections: FreshSections(nil)}, WithClock(clock))

	mutations := []func(){
		func() { store.Delete("missing") },
		func() { store.PatchData("missing", Data{"a": 1}) },
		func() { store.Reorder("a", "b") },
		func() { store.SetName("Renamed") },
	}
	for _, mutate := range mutations {
		current = current.Add(time.Minute)
		mutate()
		assert.Equal(t, current, store.LastUpdated())
	}
}

func TestSectionsReturnsCopies(t *testing.T) {
	store := newTestStore(t)

	sections := store.Sections()
	sections[0].Data["title"] = "mutated"

	navbar, _ := store.Section("s1")
	assert.Equal(t, "Travel Tour", navbar.Data["title"])
}
