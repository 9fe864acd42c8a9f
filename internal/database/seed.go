package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"menupress/internal/models"
)

// DemoRestaurantID owns the seeded demo website. Send it as X-Restaurant-ID
// to exercise the API locally.
var DemoRestaurantID = uuid.MustParse("00000000-0000-4000-8000-000000000001")

// Seed populates the database with initial development data.
// It creates a demo restaurant website if no website exists yet.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM websites").Scan(&count); err != nil {
		return fmt.Errorf("seed check websites: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	draft, err := json.Marshal(DemoContent())
	if err != nil {
		return fmt.Errorf("seed marshal draft: %w", err)
	}

	var id uuid.UUID
	err = db.QueryRow(`
		INSERT INTO websites (restaurant_id, draft, status)
		VALUES ($1, $2, $3)
		RETURNING id
	`, DemoRestaurantID, draft, models.WebsiteStatusDraft).Scan(&id)
	if err != nil {
		return fmt.Errorf("seed insert website: %w", err)
	}

	slog.Info("database seeded with demo website",
		"website_id", id,
		"restaurant_id", DemoRestaurantID,
	)
	return nil
}

// DemoContent returns a small but complete restaurant website draft.
func DemoContent() models.Content {
	return models.Content{
		WebsiteName: "Joe's Pizza",
		DesignSystem: models.DesignSystem{
			Colors: models.ColorPalette{
				Primary: "#b91c1c", Secondary: "#1f2937", Accent: "#f59e0b",
				Background: "#fffaf0", Text: "#111827",
			},
			Typography: models.Typography{
				HeadingFont: "Playfair Display", BodyFont: "Inter",
				BaseFontSize: "16px", LineHeight: "1.6",
			},
			Spacing: models.Spacing{
				Unit: "8px", SectionPadding: "64px", ContainerWidth: "1120px", BorderRadius: "8px",
			},
		},
		SEO: models.SEOSettings{
			SiteTitle:       "Joe's Pizza",
			SiteDescription: "Best pizza in town",
			Keywords:        []string{"pizza", "italian", "delivery"},
		},
		Integrations: models.IntegrationSettings{
			ReservationURL: "https://reservations.example.com/joes-pizza",
		},
		Business: models.BusinessInfo{
			Cuisine: "Italian", Phone: "+1 555 0100", Email: "hello@joespizza.example",
			PriceRange: "$$", Currency: "USD",
			Address: models.Address{
				Street: "12 Main Street", City: "Springfield", Region: "IL",
				PostalCode: "62701", Country: "US",
			},
		},
		MenuItems: []models.MenuItem{
			{ID: "margherita", Name: "Margherita", Description: "Tomato, mozzarella, basil",
				PriceCents: 1200, Category: "Pizza", Dietary: []string{"vegetarian"}, Available: true},
			{ID: "diavola", Name: "Diavola", Description: "Spicy salami, chili oil",
				PriceCents: 1450, Category: "Pizza", Available: true},
			{ID: "tiramisu", Name: "Tiramisu", Description: "House made",
				PriceCents: 700, Category: "Dessert", Dietary: []string{"vegetarian"}, Available: true},
		},
		Pages: []models.Page{
			{
				ID: "home", Title: "Home", IsHomepage: true, Published: true,
				MetaDescription: "Wood-fired pizza in Springfield since 1998.",
				Sections: models.Sections{
					{Name: "hero", Payload: &models.HeroSection{
						Headline: "Wood-fired since 1998", Subheadline: "Slices, pies, and good company",
						CTAText: "See the menu", CTALink: "menu.html",
					}},
					{Name: "about", Payload: &models.AboutSection{
						Title: "Our story",
						Body:  "Joe opened the oven in **1998** and never let it cool down.",
					}},
					{Name: "hours", Payload: &models.HoursSection{
						Title: "Opening hours",
						Hours: []models.OpeningHours{
							{Day: "Monday", Closed: true},
							{Day: "Tuesday", Opens: "11:00", Closes: "22:00"},
							{Day: "Saturday", Opens: "12:00", Closes: "23:30"},
						},
					}},
				},
			},
			{
				ID: "menu", Slug: "menu", Title: "Menu", Published: true,
				Sections: models.Sections{
					{Name: "menu", Payload: &models.MenuSection{Title: "Our menu", ShowPrices: true}},
				},
			},
			{
				ID: "contact", Slug: "contact", Title: "Contact", Published: true,
				Sections: models.Sections{
					{Name: "faq", Payload: &models.FAQSection{
						Title: "Questions",
						Items: []models.FAQItem{{Question: "Do you deliver?", Answer: "Within 5 km."}},
					}},
					{Name: "contact", Payload: &models.ContactSection{Title: "Say hello", FormEnabled: true}},
				},
			},
		},
	}
}
