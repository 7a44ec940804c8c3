package snippets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/telemetry"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// newTestStore creates a migrated store in a temp dir.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return store
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t)
	if err := store.Seed(context.Background(), DefaultSnippets()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return store
}

func TestOpen_CreatesDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "deeper", "snippets.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer store.Close()

	if store.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("directory not created: %v", err)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Migrate(); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestInsertAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, models.Snippet{
		Title:    "Hello",
		Language: "go",
		Category: "basics",
		Code:     `fmt.Println("hi")`,
		Tags:     "print",
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Hello" || got.Language != "go" || got.Tags != "print" {
		t.Errorf("Get() = %+v", got)
	}
	if got.Framework != "" {
		t.Errorf("Framework = %q, want empty", got.Framework)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestInsert_RequiresFields(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Insert(context.Background(), models.Snippet{Title: "x"}); err == nil {
		t.Error("Insert() with missing fields should fail")
	}
}

func TestGet_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Get(context.Background(), 999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSeed_ReplacesContents(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	want := len(DefaultSnippets())
	n, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != want {
		t.Errorf("Count() = %d, want %d", n, want)
	}

	if err := store.Seed(ctx, DefaultSnippets()[:2]); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	n, _ = store.Count(ctx)
	if n != 2 {
		t.Errorf("Count() after reseed = %d, want 2", n)
	}
}

func TestFind_Filters(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter models.SnippetFilter
		check  func(models.Snippet) bool
		min    int
	}{
		{
			name:   "language ignores case",
			filter: models.SnippetFilter{Language: "PYTHON"},
			check:  func(s models.Snippet) bool { return s.Language == "python" },
			min:    3,
		},
		{
			name:   "language and category combine",
			filter: models.SnippetFilter{Language: "python", Category: "database"},
			check:  func(s models.Snippet) bool { return s.Language == "python" && s.Category == "database" },
			min:    2,
		},
		{
			name:   "framework substring",
			filter: models.SnippetFilter{Framework: "oracle"},
			check:  func(s models.Snippet) bool { return s.Framework == "oracledb" },
			min:    2,
		},
		{
			name:   "keyword only in tags",
			filter: models.SnippetFilter{Keyword: "goroutine"},
			check:  func(s models.Snippet) bool { return s.Title == "Go worker pool with errgroup" },
			min:    1,
		},
		{
			name:   "keyword across columns",
			filter: models.SnippetFilter{Keyword: "POOL"},
			check: func(s models.Snippet) bool {
				text := strings.ToLower(s.Title + " " + s.Description + " " + s.Tags)
				return strings.Contains(text, "pool")
			},
			min: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Find(ctx, tt.filter, 20)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if len(got) < tt.min {
				t.Errorf("Find() returned %d, want at least %d", len(got), tt.min)
			}
			for _, s := range got {
				if !tt.check(s) {
					t.Errorf("unexpected result %q", s.Title)
				}
			}
		})
	}
}

func TestFind_NoMatch(t *testing.T) {
	store := seededStore(t)
	got, err := store.Find(context.Background(), models.SnippetFilter{Language: "cobol"}, 5)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Find() = %d results, want 0", len(got))
	}
}

func TestFind_WildcardsMatchLiterally(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, sn := range []models.Snippet{
		{Title: "snake_case keys", Language: "python", Framework: "my_lib", Category: "data", Code: "x"},
		{Title: "plain", Language: "python", Framework: "stdlib", Category: "data", Code: "y"},
		{Title: "50% off", Language: "python", Category: "data", Code: "z"},
	} {
		if _, err := store.Insert(ctx, sn); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter models.SnippetFilter
		want   []string
	}{
		{"underscore keyword", models.SnippetFilter{Keyword: "_"}, []string{"snake_case keys"}},
		{"percent keyword", models.SnippetFilter{Keyword: "%"}, []string{"50% off"}},
		{"underscore framework", models.SnippetFilter{Framework: "_"}, []string{"snake_case keys"}},
		{"backslash keyword", models.SnippetFilter{Keyword: `\`}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Find(ctx, tt.filter, MaxLimit)
			if err != nil {
				t.Fatalf("Find() error = %v", err)
			}
			if names := titles(got); strings.Join(names, "|") != strings.Join(tt.want, "|") {
				t.Errorf("Find(%+v) = %v, want %v", tt.filter, names, tt.want)
			}
		})
	}
}

func TestTruncate_KeepsRunes(t *testing.T) {
	long := strings.Repeat("a", maxFilterLen-1) + "é" + "tail"

	got := truncate(long)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate() returned invalid UTF-8: %q", got)
	}
	if got != strings.Repeat("a", maxFilterLen-1) {
		t.Errorf("truncate() = %q", got)
	}
	if short := "déjà vu"; truncate(short) != short {
		t.Errorf("truncate(%q) changed a short value", short)
	}
}

func TestFind_LimitCapped(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := make([]models.Snippet, 30)
	for i := range batch {
		batch[i] = models.Snippet{Title: "s", Language: "go", Category: "c", Code: "x"}
	}
	if err := store.Seed(ctx, batch); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	tests := []struct {
		limit int
		want  int
	}{
		{limit: 1000, want: MaxLimit},
		{limit: 0, want: DefaultLimit},
		{limit: -3, want: DefaultLimit},
		{limit: 7, want: 7},
	}
	for _, tt := range tests {
		got, err := store.Find(ctx, models.SnippetFilter{}, tt.limit)
		if err != nil {
			t.Fatalf("Find(limit=%d) error = %v", tt.limit, err)
		}
		if len(got) != tt.want {
			t.Errorf("Find(limit=%d) = %d results, want %d", tt.limit, len(got), tt.want)
		}
	}
}

func TestFind_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, title := range []string{"old", "middle", "new"} {
		_, err := store.Insert(ctx, models.Snippet{
			Title: title, Language: "go", Category: "c", Code: "x",
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got, err := store.Find(ctx, models.SnippetFilter{}, 5)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if len(got) != 3 || got[0].Title != "new" || got[2].Title != "old" {
		t.Errorf("order = %v", titles(got))
	}
}

func TestFind_EmitsSpan(t *testing.T) {
	store := seededStore(t)
	exp := tracetest.NewInMemoryExporter()
	tracer := telemetry.NewWithExporter(exp)
	store.SetTracer(tracer)

	if _, err := store.Find(context.Background(), models.SnippetFilter{Language: "go"}, 5); err != nil {
		t.Fatalf("Find() error = %v", err)
	}

	spans := exp.GetSpans()
	if len(spans) != 1 || spans[0].Name != "snippets.query" {
		t.Errorf("spans = %v, want one snippets.query", spans)
	}
}

func TestFacets(t *testing.T) {
	store := seededStore(t)
	ctx := context.Background()

	langs, err := store.Languages(ctx)
	if err != nil {
		t.Fatalf("Languages() error = %v", err)
	}
	if len(langs) == 0 || langs[0].Name != "python" {
		t.Errorf("Languages() = %v, want python first", langs)
	}

	cats, err := store.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	total := 0
	for _, c := range cats {
		total += c.Count
	}
	if total != len(DefaultSnippets()) {
		t.Errorf("category counts sum to %d, want %d", total, len(DefaultSnippets()))
	}
}

func TestParseSeed_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "snippets: [\n"},
		{"missing code", "snippets:\n  - title: t\n    language: go\n    category: c\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseSeed([]byte(tt.data)); err == nil {
				t.Error("ParseSeed() should fail")
			}
		})
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := "snippets:\n  - title: t\n    language: go\n    category: c\n    code: x\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadSeedFile(path)
	if err != nil {
		t.Fatalf("LoadSeedFile() error = %v", err)
	}
	if len(got) != 1 || got[0].Title != "t" {
		t.Errorf("LoadSeedFile() = %+v", got)
	}
}

func titles(s []models.Snippet) []string {
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i].Title
	}
	return out
}
