package toc

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Heading
	}{
		{
			name:    "empty",
			content: "",
			want:    nil,
		},
		{
			name:    "no headings",
			content: "<p>Hello</p><h1>Title</h1><h4>Deep</h4>",
			want:    nil,
		},
		{
			name:    "levels in document order",
			content: "<h2>Intro</h2><p>x</p><h3>Detail</h3><h2>Outro</h2>",
			want: []Heading{
				{ID: "heading-0", Text: "Intro", Level: 2},
				{ID: "heading-1", Text: "Detail", Level: 3},
				{ID: "heading-2", Text: "Outro", Level: 2},
			},
		},
		{
			name:    "embedded ids are ignored",
			content: `<h2 id="same">A</h2><h2 id="same">B</h2>`,
			want: []Heading{
				{ID: "heading-0", Text: "A", Level: 2},
				{ID: "heading-1", Text: "B", Level: 2},
			},
		},
		{
			name:    "nested markup and whitespace",
			content: "<h2>\n  Using <code>go test</code>\n  &amp; friends </h2>",
			want: []Heading{
				{ID: "heading-0", Text: "Using go test & friends", Level: 2},
			},
		},
		{
			name:    "unterminated heading",
			content: "<h3>Dangling",
			want: []Heading{
				{ID: "heading-0", Text: "Dangling", Level: 3},
			},
		},
		{
			name:    "heading start closes the open heading",
			content: "<h2>A<h3>B</h3><p>body</p>",
			want: []Heading{
				{ID: "heading-0", Text: "A", Level: 2},
				{ID: "heading-1", Text: "B", Level: 3},
			},
		},
		{
			name:    "other heading levels close without being listed",
			content: "<h2>A<h4>aside</h4></h2><h3>C</h3>",
			want: []Heading{
				{ID: "heading-0", Text: "A", Level: 2},
				{ID: "heading-1", Text: "C", Level: 3},
			},
		},
		{
			name:    "escaped markup in code is text",
			content: "<pre><code>&lt;h2&gt;not a heading&lt;/h2&gt;</code></pre>",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Collect(Extract(tt.content))
			if len(got) != len(tt.want) {
				t.Fatalf("Extract() returned %d headings, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Extract()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtract_UniqueSequentialIDs(t *testing.T) {
	var b strings.Builder
	const n = 25
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "<h%d>Section</h%d><p>body</p>", 2+i%2, 2+i%2)
	}

	seen := make(map[string]bool)
	i := 0
	for h := range Extract(b.String()) {
		if h.ID != HeadingID(i) {
			t.Errorf("heading %d ID = %q, want %q", i, h.ID, HeadingID(i))
		}
		if seen[h.ID] {
			t.Errorf("duplicate ID %q", h.ID)
		}
		seen[h.ID] = true
		i++
	}
	if i != n {
		t.Errorf("Extract() yielded %d headings, want %d", i, n)
	}
}

func TestExtract_Lazy(t *testing.T) {
	content := "<h2>A</h2><h2>B</h2><h2>C</h2>"
	var got []string
	for h := range Extract(content) {
		got = append(got, h.Text)
		if len(got) == 2 {
			break
		}
	}
	if strings.Join(got, ",") != "A,B" {
		t.Errorf("early break yielded %v, want [A B]", got)
	}
}

func TestAnnotate(t *testing.T) {
	content := `<p>lead</p><h2 id="old" class="x">One</h2><h3>Two</h3><h1>Skip</h1>`

	out, headings := Annotate(content)

	if len(headings) != 2 {
		t.Fatalf("Annotate() returned %d headings, want 2", len(headings))
	}
	for _, want := range []string{
		`<p>lead</p>`,
		`<h2 class="x" id="heading-0">One</h2>`,
		`<h3 id="heading-1">Two</h3>`,
		`<h1>Skip</h1>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Annotate() output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `id="old"`) {
		t.Error("Annotate() kept the embedded id")
	}

	again := Collect(Extract(out))
	if len(again) != len(headings) {
		t.Fatalf("Extract(Annotate()) returned %d headings, want %d", len(again), len(headings))
	}
	for i := range again {
		if again[i] != headings[i] {
			t.Errorf("Extract(Annotate())[%d] = %+v, want %+v", i, again[i], headings[i])
		}
	}
}

func TestAnnotate_PreservesOtherMarkup(t *testing.T) {
	content := "<p>a &amp; b</p><!-- note --><script>if (a < b) {}</script>"
	out, headings := Annotate(content)
	if out != content {
		t.Errorf("Annotate() = %q, want unchanged %q", out, content)
	}
	if headings != nil {
		t.Errorf("Annotate() headings = %v, want nil", headings)
	}
}

func TestAnnotate_Entities(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		want     string
		headings []string
	}{
		{
			name:     "ampersand in heading",
			content:  "<h2>JSON &amp; YAML</h2>",
			want:     `<h2 id="heading-0">JSON &amp; YAML</h2>`,
			headings: []string{"JSON & YAML"},
		},
		{
			name:     "escaped tag in inline code",
			content:  "<h3>Escaping <code>&lt;div&gt;</code> tags</h3>",
			want:     `<h3 id="heading-0">Escaping <code>&lt;div&gt;</code> tags</h3>`,
			headings: []string{"Escaping <div> tags"},
		},
		{
			name:     "entity before inline markup",
			content:  "<h2>A &amp; <em>b</em></h2>",
			want:     `<h2 id="heading-0">A &amp; <em>b</em></h2>`,
			headings: []string{"A & b"},
		},
		{
			name:    "escaped attribute outside headings",
			content: `<p><a href="/search?a=1&amp;b=2">Search</a></p>`,
			want:    `<p><a href="/search?a=1&amp;b=2">Search</a></p>`,
		},
		{
			name:     "nested heading is annotated",
			content:  "<h2>A<h3>B</h3>",
			want:     `<h2 id="heading-0">A<h3 id="heading-1">B</h3>`,
			headings: []string{"A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, headings := Annotate(tt.content)
			if out != tt.want {
				t.Errorf("Annotate() = %q, want %q", out, tt.want)
			}
			if len(headings) != len(tt.headings) {
				t.Fatalf("Annotate() returned %d headings, want %d", len(headings), len(tt.headings))
			}
			for i, h := range headings {
				if h.Text != tt.headings[i] {
					t.Errorf("heading %d text = %q, want %q", i, h.Text, tt.headings[i])
				}
			}
		})
	}
}
