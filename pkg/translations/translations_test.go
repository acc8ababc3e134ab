package translations

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/trigedasleng/trigdict/pkg/db"
	"github.com/trigedasleng/trigdict/pkg/migrate"
)

func episodes() []db.Episode {
	return []db.Episode{
		{Value: "S1E01", SeasonNumber: 1, SeriesNumber: 1},
		{Value: "S1E02", SeasonNumber: 1, SeriesNumber: 2},
		{Value: "S1E03", SeasonNumber: 1, SeriesNumber: 3},
		{Value: "S2E05", SeasonNumber: 2, SeriesNumber: 5},
		{Value: "S6E02", SeasonNumber: 6, SeriesNumber: 2},
	}
}

func TestFromSentence(t *testing.T) {
	linked := FromSentence(db.SentenceEntry{
		ID: "s1", Value: "Jus drein jus daun.", English: "Blood must have blood.",
		Audio:         sql.NullString{String: "jus.mp3", Valid: true},
		SeasonNumber:  sql.NullInt64{Int64: 2, Valid: true},
		EpisodeNumber: sql.NullInt64{Int64: 5, Valid: true},
	})
	want := Item{ID: "s1", Trigedasleng: "Jus drein jus daun.", English: "Blood must have blood.", Audio: "jus.mp3", Episode: "0205"}
	if diff := cmp.Diff(want, linked); diff != "" {
		t.Errorf("FromSentence (-want +got):\n%s", diff)
	}

	if got := FromSentence(db.SentenceEntry{ID: "s2"}).Episode; got != Other {
		t.Errorf("unlinked sentence bucket = %q, want %q", got, Other)
	}
}

func TestCatalog(t *testing.T) {
	c := NewCatalog(episodes())
	if diff := cmp.Diff([]string{"0101", "0102", "0103", "0205", "0602", Other}, c.Keys); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"01", "02", "06", Other}, c.Seasons); diff != "" {
		t.Errorf("seasons (-want +got):\n%s", diff)
	}
	if c.Label("0205") != "S2E05" || c.Label("06") != "Season 6" || c.Label(Other) != "Other" {
		t.Errorf("unexpected labels %q %q %q", c.Label("0205"), c.Label("06"), c.Label(Other))
	}
	if diff := cmp.Diff([]string{"0101", "0102", "0103"}, c.Scope("01")); diff != "" {
		t.Errorf("season scope (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{Other}, c.Scope(Other)); diff != "" {
		t.Errorf("other scope (-want +got):\n%s", diff)
	}
}

func TestPagerAll(t *testing.T) {
	p := NewPager(NewCatalog(episodes()))
	if diff := cmp.Diff([]string{"0101", "0102"}, p.Visible()); diff != "" {
		t.Errorf("first page (-want +got):\n%s", diff)
	}
	if !p.HasMore() {
		t.Fatalf("expected more episodes")
	}
	p.LoadMore()
	p.LoadMore()
	if diff := cmp.Diff([]string{"0101", "0102", "0103", "0205", "0602", Other}, p.Visible()); diff != "" {
		t.Errorf("all pages (-want +got):\n%s", diff)
	}
	if p.HasMore() {
		t.Errorf("expected no more episodes")
	}
}

func TestPagerSelectSeason(t *testing.T) {
	p := NewPager(NewCatalog(episodes()))
	p.LoadMore()

	if err := p.Select("01"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if p.Loaded != PageSize {
		t.Errorf("Select must reset to the first page, loaded %d", p.Loaded)
	}
	if diff := cmp.Diff([]string{"0101", "0102"}, p.Visible()); diff != "" {
		t.Errorf("season page (-want +got):\n%s", diff)
	}
	p.LoadMore()
	// The next page never spills into the following season.
	if diff := cmp.Diff([]string{"0101", "0102", "0103"}, p.Visible()); diff != "" {
		t.Errorf("season pages (-want +got):\n%s", diff)
	}
	if p.HasMore() {
		t.Errorf("season 1 has three episodes, expected no more")
	}

	if err := p.Select(Other); err != nil {
		t.Fatalf("Select other: %v", err)
	}
	if diff := cmp.Diff([]string{Other}, p.Visible()); diff != "" {
		t.Errorf("other page (-want +got):\n%s", diff)
	}
	if p.HasMore() {
		t.Errorf("the other bucket is a single page")
	}

	if err := p.Select("04"); !errors.Is(err, ErrUnknownSeason) {
		t.Errorf("expected ErrUnknownSeason, got %v", err)
	}
}

func TestRender(t *testing.T) {
	p := NewPager(NewCatalog(episodes()))
	items := []Item{
		{ID: "1", Trigedasleng: "Jus drein jus daun.", English: "Blood must have blood.", Episode: "0101"},
		{ID: "2", Trigedasleng: "Hod op.", English: "Hold on.", Episode: "0102"},
		{ID: "3", Trigedasleng: "Yu gonplei ste odon.", English: "Your fight is over.", Episode: "0101"},
		{ID: "4", Trigedasleng: "Ai laik Heda.", English: "I am the Commander.", Episode: "0602"},
		{ID: "5", Trigedasleng: "Jus daun.", English: "Blood.", Episode: Other},
	}

	groups := p.Render(items, "")
	if len(groups) != 2 || groups[0].Key != "0101" || len(groups[0].Items) != 2 || groups[1].Label != "S1E02" {
		t.Fatalf("unexpected groups %+v", groups)
	}

	groups = p.Render(items, "BLOOD")
	if len(groups) != 1 || len(groups[0].Items) != 1 || groups[0].Items[0].ID != "1" {
		t.Errorf("search should keep only matching items, got %+v", groups)
	}

	if err := p.Select(Other); err != nil {
		t.Fatalf("Select: %v", err)
	}
	groups = p.Render(items, "jus")
	if len(groups) != 1 || groups[0].Key != Other || groups[0].Items[0].ID != "5" {
		t.Errorf("unexpected other groups %+v", groups)
	}
}

func TestLoadFromStore(t *testing.T) {
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := db.InitCoreDB(conn); err != nil {
		t.Fatalf("init db: %v", err)
	}
	dump := "INSERT INTO `dict_translations` VALUES " +
		"(1,'Ai laik Heda.','I am the Commander.','','','0602','','',NULL)," +
		"(2,'Hod op.','Hold on.','','','other','','',NULL)," +
		"(3,'Jus drein jus daun.','Blood must have blood.','','','0205','','',NULL);"
	if _, err := migrate.New(conn, migrate.Options{}).Run(context.Background(), dump); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	items, err := Load(conn)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var keys []string
	for _, it := range items {
		keys = append(keys, it.Episode)
	}
	if diff := cmp.Diff([]string{"0602", Other, "0205"}, keys); diff != "" {
		t.Errorf("episode keys (-want +got):\n%s", diff)
	}

	c, err := LoadCatalog(conn)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if diff := cmp.Diff([]string{"0205", "0602", Other}, c.Keys); diff != "" {
		t.Errorf("catalog (-want +got):\n%s", diff)
	}
}

func TestGetWithSource(t *testing.T) {
	conn, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()
	if err := db.InitCoreDB(conn); err != nil {
		t.Fatalf("init db: %v", err)
	}
	dump := "INSERT INTO `dict_sources` VALUES (1,'Wiki','Jessie','2016-03-10','https://example.com/wiki');" +
		"INSERT INTO `dict_translations` VALUES " +
		"(1,'Ai laik Heda.','I am the Commander.','','','0602','','','1')," +
		"(2,'Hod op.','Hold on.','','','other','','',NULL);"
	if _, err := migrate.New(conn, migrate.Options{}).Run(context.Background(), dump); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	items, err := Load(conn)
	if err != nil || len(items) != 2 {
		t.Fatalf("Load: %v %+v", err, items)
	}

	d, err := Get(conn, items[0].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Episode != "0602" || d.Source == nil || d.Source.Title.String != "Wiki" {
		t.Errorf("unexpected detail %+v", d)
	}

	d, err = Get(conn, items[1].ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Episode != Other || d.Source != nil {
		t.Errorf("unexpected detail %+v", d)
	}

	if _, err := Get(conn, "missing"); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
