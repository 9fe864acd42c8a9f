package engine

import (
	"strings"
	"testing"

	"menupress/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{1250, "USD", "$12.50"},
		{1250, "", "$12.50"},
		{5, "eur", "€0.05"},
		{100000, "GBP", "£1000.00"},
		{999, "SEK", "9.99 SEK"},
		{-250, "USD", "-$2.50"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.cents, tt.currency); got != tt.want {
			t.Errorf("FormatPrice(%d, %q) = %q, want %q", tt.cents, tt.currency, got, tt.want)
		}
	}
}

func TestFormatAddress(t *testing.T) {
	a := models.Address{Street: "1 Main St", City: "Springfield", Region: "IL", PostalCode: "62701", Country: "US"}
	if got := FormatAddress(a); got != "1 Main St, Springfield, IL 62701, US" {
		t.Errorf("FormatAddress = %q", got)
	}
	if got := FormatAddress(models.Address{City: "Rome"}); got != "Rome" {
		t.Errorf("FormatAddress = %q", got)
	}
}

func TestBuildMenuGroupsByCategory(t *testing.T) {
	sc := SectionContext{
		MenuItems: []models.MenuItem{
			{Name: "Bruschetta", Category: "Starters", PriceCents: 800, Available: true},
			{Name: "Margherita", Category: "Pizza", PriceCents: 1200, Available: true, Image: "marg.jpg"},
			{Name: "Calzone", Category: "Pizza", PriceCents: 1400, Available: true},
			{Name: "Tiramisu", Category: "Dessert", PriceCents: 700, Available: true},
			{Name: "Gone", Category: "Pizza", Available: false},
		},
		Business: models.BusinessInfo{Currency: "EUR"},
		Images:   fakeImages,
	}

	v, err := BuildSection(models.Section{Name: "menu", Payload: &models.MenuSection{Categories: []string{"Pizza", "Starters"}, ShowPrices: true}}, sc)
	if err != nil {
		t.Fatalf("BuildSection: %v", err)
	}
	menu := v.Data.(MenuView)
	if len(menu.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(menu.Categories))
	}
	if menu.Categories[0].Name != "Starters" || menu.Categories[1].Name != "Pizza" {
		t.Errorf("category order = %s, %s", menu.Categories[0].Name, menu.Categories[1].Name)
	}
	pizza := menu.Categories[1].Items
	if len(pizza) != 2 {
		t.Fatalf("pizza items = %d, want 2", len(pizza))
	}
	if pizza[0].Price != "€12.00" {
		t.Errorf("price = %q", pizza[0].Price)
	}
	if pizza[0].Image == nil || pizza[0].Image.Alt != "Margherita" || !strings.Contains(pizza[0].Image.Src, "images/menu/") {
		t.Errorf("image = %+v", pizza[0].Image)
	}
	if pizza[1].Image != nil {
		t.Error("item without image got one")
	}
}

func TestBuildSectionKinds(t *testing.T) {
	var rewritten []string
	sc := SectionContext{
		HeroImage:      "default-hero",
		ReservationURL: "https://book.test",
		Business:       models.BusinessInfo{Phone: "555", Address: models.Address{City: "Rome"}},
		Images:         fakeImages,
		Rewrite: func(s string) string {
			rewritten = append(rewritten, s)
			return s
		},
	}

	hero, err := BuildSection(models.Section{Name: "hero", Payload: &models.HeroSection{Headline: "Hi"}}, sc)
	if err != nil {
		t.Fatal(err)
	}
	if got := hero.Data.(HeroView).Image.Src; got != "images/hero/default-hero-800.webp" {
		t.Errorf("hero falls back to website hero image, got %q", got)
	}

	about, err := BuildSection(models.Section{Name: "story", Payload: &models.AboutSection{Title: "Story", Body: "# Since 1990"}}, sc)
	if err != nil {
		t.Fatal(err)
	}
	if av := about.Data.(AboutView); !strings.Contains(string(av.Body), "<h1") || av.Image != nil {
		t.Errorf("about = %+v", av)
	}

	contact, err := BuildSection(models.Section{Name: "contact", Payload: &models.ContactSection{ShowMap: true}}, sc)
	if err != nil {
		t.Fatal(err)
	}
	cv := contact.Data.(ContactView)
	if !cv.ShowMap || cv.Address != "Rome" || cv.ReservationURL != "https://book.test" || cv.Phone != "555" {
		t.Errorf("contact = %+v", cv)
	}

	noAddr := sc
	noAddr.Business = models.BusinessInfo{}
	contact, err = BuildSection(models.Section{Name: "contact", Payload: &models.ContactSection{ShowMap: true}}, noAddr)
	if err != nil {
		t.Fatal(err)
	}
	if contact.Data.(ContactView).ShowMap {
		t.Error("map shown without an address")
	}

	if _, err := BuildSection(models.Section{Name: "custom", Payload: &models.CustomSection{HTML: "<b>x</b>"}}, sc); err != nil {
		t.Fatal(err)
	}
	if len(rewritten) != 2 {
		t.Errorf("rewrite calls = %d, want 2 (about body and custom html)", len(rewritten))
	}

	gallery, err := BuildSection(models.Section{Name: "g", Payload: &models.GallerySection{Images: []models.GalleryImage{{Src: "a", Alt: "A"}, {Src: "b", Alt: "B"}}}}, sc)
	if err != nil {
		t.Fatal(err)
	}
	if gv := gallery.Data.(GalleryView); len(gv.Images) != 2 || gv.Images[1].Alt != "B" {
		t.Errorf("gallery = %+v", gv)
	}

	if _, err := BuildSection(models.Section{Name: "empty"}, sc); err == nil {
		t.Error("expected error for section without payload")
	}
}
