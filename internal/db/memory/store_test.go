package memory

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/domain/search/filter"
)

func newTestIndex(t *testing.T, s *Store) {
	t.Helper()
	def := db.NewIndex("doc:idx").
		Prefix("doc:").
		NoStopwords().
		TextNoStem("name").
		Text("text").
		Tag("causes").
		TagWithOpts("address_components", "|", true).
		Tag("published").
		Numeric("created_at").
		MustBuild()
	if err := s.CreateIndex(context.Background(), def); err != nil {
		t.Fatalf("CreateIndex: %v", err)
	}
}

func put(t *testing.T, s *Store, key string, fields map[string]string) {
	t.Helper()
	if err := s.HSet(context.Background(), key, fields); err != nil {
		t.Fatalf("HSet: %v", err)
	}
}

func search(t *testing.T, s *Store, expr filter.Expression) []string {
	t.Helper()
	res, err := s.Search(context.Background(), &db.SearchQuery{
		IndexName: "doc:idx", Filter: expr, Limit: 100, NoContent: true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	keys := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		keys[i] = e.Key
	}
	return keys
}

func seed(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	newTestIndex(t, s)
	put(t, s, "doc:1", map[string]string{
		"name": "Beach Cleanup", "text": "Beach Cleanup\ncollect plastic",
		"causes": "1,3", "address_components": "Santos-locality|Brazil-country", "published": "true",
	})
	put(t, s, "doc:2", map[string]string{
		"name": "Food Bank", "text": "Food Bank",
		"causes": "2", "address_components": "Campinas-locality|Brazil-country", "published": "true",
	})
	put(t, s, "doc:3", map[string]string{
		"name": "Beacon", "text": "Beacon",
		"causes": "3", "address_components": "", "published": "false",
	})
	return s
}

func TestSearch_Tags(t *testing.T) {
	s := seed(t)

	tests := []struct {
		name string
		expr filter.Expression
		want []string
	}{
		{"match all", filter.Expression{}, []string{"doc:1", "doc:2", "doc:3"}},
		{"flag", filter.Expression{}.And(filter.Flag("published", true)), []string{"doc:1", "doc:2"}},
		{
			"or",
			filter.Expression{}.And(filter.Group(filter.Or, filter.Tag("causes", "1"), filter.Tag("causes", "2"))),
			[]string{"doc:1", "doc:2"},
		},
		{
			"and",
			filter.Expression{}.And(filter.Group(filter.And, filter.Tag("causes", "1"), filter.Tag("causes", "3"))),
			[]string{"doc:1"},
		},
		{
			"all tags",
			filter.Expression{}.And(filter.AllTags("address_components", []string{"Brazil-country", "Campinas-locality"})),
			[]string{"doc:2"},
		},
		{
			"case sensitive tag",
			filter.Expression{}.And(filter.AllTags("address_components", []string{"brazil-country"})),
			[]string{},
		},
		{
			"conjunction",
			filter.Expression{}.And(filter.Flag("published", false)).And(filter.Tag("causes", "3")),
			[]string{"doc:3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := search(t, s, tt.expr); !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearch_Text(t *testing.T) {
	s := seed(t)

	if got := search(t, s, filter.Expression{}.And(filter.Text("text", "plastic beach"))); !slices.Equal(got, []string{"doc:1"}) {
		t.Errorf("text = %v", got)
	}
	if got := search(t, s, filter.Expression{}.And(filter.Text("name", "bea"))); len(got) != 0 {
		t.Errorf("whole-word name match should not match a prefix, got %v", got)
	}
	if got := search(t, s, filter.Expression{}.And(filter.Prefix("name", "bea"))); !slices.Equal(got, []string{"doc:1", "doc:3"}) {
		t.Errorf("prefix = %v", got)
	}
}

func TestSearch_Reindex(t *testing.T) {
	s := seed(t)
	put(t, s, "doc:1", map[string]string{"causes": "2"})

	if got := search(t, s, filter.Expression{}.And(filter.Tag("causes", "1"))); len(got) != 0 {
		t.Errorf("stale posting survived reindex: %v", got)
	}
	if got := search(t, s, filter.Expression{}.And(filter.Tag("causes", "2"))); !slices.Equal(got, []string{"doc:1", "doc:2"}) {
		t.Errorf("causes=2 -> %v", got)
	}
	// untouched fields are kept, like HSET
	if got := search(t, s, filter.Expression{}.And(filter.Text("text", "plastic"))); !slices.Equal(got, []string{"doc:1"}) {
		t.Errorf("text after partial HSET = %v", got)
	}
}

func TestSearch_Delete(t *testing.T) {
	s := seed(t)
	if err := s.Del(context.Background(), "doc:2"); err != nil {
		t.Fatal(err)
	}
	if got := search(t, s, filter.Expression{}); !slices.Equal(got, []string{"doc:1", "doc:3"}) {
		t.Errorf("after delete = %v", got)
	}
}

func TestSearch_PaginationAndFields(t *testing.T) {
	s := seed(t)
	res, err := s.Search(context.Background(), &db.SearchQuery{
		IndexName: "doc:idx", Offset: 1, Limit: 1, ReturnFields: []string{"name"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 3 || len(res.Entries) != 1 || res.Entries[0].Key != "doc:2" {
		t.Fatalf("unexpected page: %+v", res)
	}
	if len(res.Entries[0].Fields) != 1 || res.Entries[0].Fields["name"] != "Food Bank" {
		t.Errorf("fields = %v", res.Entries[0].Fields)
	}
}

func TestSearch_Errors(t *testing.T) {
	s := seed(t)
	ctx := context.Background()

	_, err := s.Search(ctx, &db.SearchQuery{IndexName: "missing", Limit: 1})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) {
		t.Errorf("missing index: expected db.Error, got %v", err)
	}
	_, err = s.Search(ctx, &db.SearchQuery{
		IndexName: "doc:idx", Limit: 1,
		Filter: filter.Expression{}.And(filter.Tag("nope", "1")),
	})
	if !errors.As(err, &dbErr) {
		t.Errorf("unknown field: expected db.Error, got %v", err)
	}
}

func TestCreateIndex_IndexesExistingHashes(t *testing.T) {
	s := NewStore()
	put(t, s, "doc:1", map[string]string{"causes": "9"})
	put(t, s, "other:1", map[string]string{"causes": "9"})
	newTestIndex(t, s)

	if got := search(t, s, filter.Expression{}.And(filter.Tag("causes", "9"))); !slices.Equal(got, []string{"doc:1"}) {
		t.Errorf("got %v", got)
	}
	if err := s.CreateIndex(context.Background(), db.NewIndex("doc:idx").Tag("x").MustBuild()); !errors.Is(err, db.ErrIndexExists) {
		t.Errorf("expected ErrIndexExists, got %v", err)
	}
}

func TestDropIndex(t *testing.T) {
	s := seed(t)
	ctx := context.Background()
	if err := s.DropIndex(ctx, "doc:idx"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.IndexExists(ctx, "doc:idx"); ok {
		t.Error("index still exists")
	}
	if err := s.DropIndex(ctx, "doc:idx"); !errors.Is(err, db.ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
	if h, _ := s.HGetAll(ctx, "doc:1"); h["name"] != "Beach Cleanup" {
		t.Error("documents should survive DropIndex")
	}
}

func TestKV_Expiry(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewStore(WithClock(func() time.Time { return now }))
	ctx := context.Background()

	if err := s.SetWithTTL(ctx, "k", []byte("v"), 120*time.Second); err != nil {
		t.Fatal(err)
	}
	if v, err := s.Get(ctx, "k"); err != nil || string(v) != "v" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	now = now.Add(120 * time.Second)
	if _, err := s.Get(ctx, "k"); !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected expiry, got %v", err)
	}
	if ok, _ := s.Exists(ctx, "k"); ok {
		t.Error("expired key should not exist")
	}
	if err := s.SetWithTTL(ctx, "k", []byte("v"), 0); err == nil {
		t.Error("expected error for zero ttl")
	}
}
