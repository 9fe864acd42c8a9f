package content

import (
	"encoding/json"
	"errors"
	"testing"

	"menupress/internal/models"
)

func testDoc() models.Content {
	return models.Content{
		WebsiteName: "Trattoria",
		Pages: []models.Page{
			{
				ID:         "home",
				Slug:       "",
				IsHomepage: true,
				Sections: models.Sections{
					{Name: "hero", Payload: &models.HeroSection{Headline: "Benvenuti"}},
					{Name: "faq", Payload: &models.FAQSection{Items: []models.FAQItem{
						{Question: "Parking?", Answer: "Street only"},
						{Question: "Kids?", Answer: "Welcome"},
						{Question: "Pets?", Answer: "Terrace only"},
					}}},
				},
			},
			{ID: "menu", Slug: "menu"},
		},
	}
}

func TestPathUnmarshalJSON(t *testing.T) {
	var p Path
	if err := json.Unmarshal([]byte(`["pages", 0, "sections", "faq", "items", 2, "question"]`), &p); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got, want := p.String(), "pages[0].sections.faq.items[2].question"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if !p[1].IsIndex() || p[1].Position() != 0 {
		t.Errorf("segment 1 = %+v, want index 0", p[1])
	}
	if p[0].Name() != "pages" || p[0].Position() != -1 {
		t.Errorf("segment 0 = %+v, want field pages", p[0])
	}

	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `["pages",0,"sections","faq","items",2,"question"]` {
		t.Errorf("Marshal = %s", b)
	}
}

func TestPathUnmarshalJSONRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "dotted string", input: `"pages.0.title"`},
		{name: "negative index", input: `["pages", -1]`},
		{name: "fractional index", input: `["pages", 1.5]`},
		{name: "empty field", input: `["pages", ""]`},
		{name: "object segment", input: `[{"a": 1}]`},
		{name: "boolean segment", input: `[true]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Path
			err := json.Unmarshal([]byte(tt.input), &p)
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("err = %v, want ErrInvalidPath", err)
			}
		})
	}
}

func TestGet(t *testing.T) {
	doc := testDoc()
	tests := []struct {
		name string
		path Path
		want any
	}{
		{name: "top level field", path: Path{Field("website_name")}, want: "Trattoria"},
		{name: "page slug", path: Path{Field("pages"), Index(1), Field("page_slug")}, want: "menu"},
		{
			name: "section by name into payload",
			path: Path{Field("pages"), Index(0), Field("sections"), Field("hero"), Field("headline")},
			want: "Benvenuti",
		},
		{
			name: "nested indexed item",
			path: Path{Field("pages"), Index(0), Field("sections"), Field("faq"), Field("items"), Index(2), Field("question")},
			want: "Pets?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(&doc, tt.path)
			if err != nil {
				t.Fatalf("Get(%s): %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Get(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGetErrors(t *testing.T) {
	doc := testDoc()
	tests := []struct {
		name string
		path Path
	}{
		{name: "unknown field", path: Path{Field("nope")}},
		{name: "index out of range", path: Path{Field("pages"), Index(5)}},
		{name: "field on plain list", path: Path{Field("pages"), Field("home")}},
		{name: "index on struct", path: Path{Index(0)}},
		{name: "unknown section", path: Path{Field("pages"), Index(0), Field("sections"), Field("gallery")}},
		{name: "index a section", path: Path{Field("pages"), Index(0), Field("sections"), Field("faq"), Index(0)}},
		{name: "descend into string", path: Path{Field("website_name"), Field("x")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Get(&doc, tt.path); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Get(%s) err = %v, want ErrInvalidPath", tt.path, err)
			}
		})
	}
}

func TestSet(t *testing.T) {
	doc := testDoc()

	faqQuestion := Path{Field("pages"), Index(0), Field("sections"), Field("faq"), Field("items"), Index(2), Field("question")}
	if err := Set(&doc, faqQuestion, "Dogs?"); err != nil {
		t.Fatalf("Set go value: %v", err)
	}
	if got := doc.Pages[0].Sections[1].Payload.(*models.FAQSection).Items[2].Question; got != "Dogs?" {
		t.Errorf("question = %q, want %q", got, "Dogs?")
	}

	if err := Set(&doc, Path{Field("website_name")}, json.RawMessage(`"Osteria"`)); err != nil {
		t.Fatalf("Set raw JSON: %v", err)
	}
	if doc.WebsiteName != "Osteria" {
		t.Errorf("WebsiteName = %q", doc.WebsiteName)
	}

	appendItem := Path{Field("pages"), Index(0), Field("sections"), Field("faq"), Field("items"), Index(3)}
	if err := Set(&doc, appendItem, json.RawMessage(`{"question":"Wifi?","answer":"Yes"}`)); err != nil {
		t.Fatalf("Set append: %v", err)
	}
	items := doc.Pages[0].Sections[1].Payload.(*models.FAQSection).Items
	if len(items) != 4 || items[3].Question != "Wifi?" {
		t.Errorf("items = %+v", items)
	}

	replaceSection := Path{Field("pages"), Index(0), Field("sections"), Field("hero")}
	raw := json.RawMessage(`{"name":"hero","kind":"custom","data":{"html":"<p>hi</p>"}}`)
	if err := Set(&doc, replaceSection, raw); err != nil {
		t.Fatalf("Set section: %v", err)
	}
	if doc.Pages[0].Sections[0].Kind() != models.SectionCustom {
		t.Errorf("kind = %q, want custom", doc.Pages[0].Sections[0].Kind())
	}
}

func TestSetErrors(t *testing.T) {
	doc := testDoc()
	tests := []struct {
		name  string
		path  Path
		value any
	}{
		{name: "empty path", path: Path{}, value: "x"},
		{name: "type mismatch", path: Path{Field("website_name")}, value: 42},
		{name: "bad raw json", path: Path{Field("pages"), Index(0), Field("is_homepage")}, value: json.RawMessage(`"yes"`)},
		{name: "index past end", path: Path{Field("pages"), Index(9)}, value: json.RawMessage(`{}`)},
		{name: "unknown kind", path: Path{Field("pages"), Index(0), Field("sections"), Field("hero")}, value: json.RawMessage(`{"kind":"slider"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Set(&doc, tt.path, tt.value); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Set(%s) err = %v, want ErrInvalidPath", tt.path, err)
			}
		})
	}
	if doc.WebsiteName != "Trattoria" {
		t.Errorf("failed Set changed WebsiteName to %q", doc.WebsiteName)
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	doc := testDoc()
	out, err := Apply(doc,
		SetPath(Path{Field("website_name")}, "Osteria"),
		UpsertSection("menu", models.Section{Name: "list", Payload: &models.MenuSection{ShowPrices: true}}),
	)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.WebsiteName != "Osteria" || len(out.Pages[1].Sections) != 1 {
		t.Errorf("out = %+v", out)
	}
	if doc.WebsiteName != "Trattoria" || len(doc.Pages[1].Sections) != 0 {
		t.Errorf("input mutated: %+v", doc)
	}
}

func TestApplyStopsOnError(t *testing.T) {
	_, err := Apply(testDoc(), SetHomepage("nope"))
	if !errors.Is(err, ErrPageNotFound) {
		t.Errorf("err = %v, want ErrPageNotFound", err)
	}
}

func TestUpsertSectionReplaces(t *testing.T) {
	doc := testDoc()
	err := UpsertSection("home", models.Section{Name: "hero", Payload: &models.HeroSection{Headline: "Ciao"}})(&doc)
	if err != nil {
		t.Fatalf("UpsertSection: %v", err)
	}
	if len(doc.Pages[0].Sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(doc.Pages[0].Sections))
	}
	if got := doc.Pages[0].Sections[0].Payload.(*models.HeroSection).Headline; got != "Ciao" {
		t.Errorf("headline = %q", got)
	}
}

func TestUpsertSectionRequiresPayload(t *testing.T) {
	doc := testDoc()
	if err := UpsertSection("home", models.Section{Name: "x"})(&doc); err == nil {
		t.Fatal("expected error")
	}
}

func TestRemoveSection(t *testing.T) {
	doc := testDoc()
	if err := RemoveSection("home", "hero")(&doc); err != nil {
		t.Fatalf("RemoveSection: %v", err)
	}
	if len(doc.Pages[0].Sections) != 1 || doc.Pages[0].Sections[0].Name != "faq" {
		t.Errorf("sections = %+v", doc.Pages[0].Sections)
	}
	if err := RemoveSection("home", "hero")(&doc); !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("second remove err = %v, want ErrSectionNotFound", err)
	}
}

func TestSetHomepage(t *testing.T) {
	doc := testDoc()
	if err := SetHomepage("menu")(&doc); err != nil {
		t.Fatalf("SetHomepage: %v", err)
	}
	if doc.Pages[0].IsHomepage || !doc.Pages[1].IsHomepage {
		t.Errorf("homepage flags = %v, %v", doc.Pages[0].IsHomepage, doc.Pages[1].IsHomepage)
	}
}
