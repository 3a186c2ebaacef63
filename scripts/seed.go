package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/discoverly/discoverly/backend/internal/adapters/database"
	"github.com/discoverly/discoverly/backend/internal/adapters/search"
	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/postgres"
	"github.com/discoverly/discoverly/backend/internal/infrastructure/clients/typesense"
	"github.com/discoverly/discoverly/backend/pkg/config"
)

// Development seeder. Loads a small Lagos-centered dataset so every discovery
// mode returns something, then indexes it into Typesense when available.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	var searchRepo *search.TypesenseAdapter
	tsClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Typesense unavailable, skipping index: %v", err)
	} else {
		if err := tsClient.InitSchema(context.Background()); err != nil {
			log.Printf("Failed to init Typesense schema: %v", err)
		}
		searchRepo = search.NewTypesenseAdapter(tsClient)
	}

	ctx := context.Background()
	db := goqu.New("postgres", pgClient.DB())

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				content_blocks,
				view_events,
				favorites,
				businesses,
				industries,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	now := time.Now()

	// 1. Industries
	food := seedIndustry(ctx, db, pgClient, "Food & Drink", "")
	bakeries := seedIndustry(ctx, db, pgClient, "Bakeries", food)
	cafes := seedIndustry(ctx, db, pgClient, "Cafes", food)
	wellness := seedIndustry(ctx, db, pgClient, "Health & Wellness", "")
	gyms := seedIndustry(ctx, db, pgClient, "Gyms", wellness)
	retail := seedIndustry(ctx, db, pgClient, "Retail", "")

	// 2. Users
	ownerID := seedUser(ctx, db, pgClient, "owner@example.com", "Ada", "Obi", 6.5244, 3.3792)
	browserID := seedUser(ctx, db, pgClient, "browser@example.com", "Tunde", "Bello", 6.4550, 3.3941)

	hours := &entities.WeeklyServiceHours{
		Timezone: "Africa/Lagos",
		Days: map[string]entities.DayHours{
			"monday":    {Start: "08:00", End: "18:00"},
			"tuesday":   {Start: "08:00", End: "18:00"},
			"wednesday": {Start: "08:00", End: "18:00"},
			"thursday":  {Start: "08:00", End: "18:00"},
			"friday":    {Start: "08:00", End: "20:00"},
			"saturday":  {Start: "10:00", End: "16:00"},
			"sunday":    {IsClosed: true},
		},
	}

	type seedBusiness struct {
		name       string
		industry   string
		sub        string
		lat, lon   float64
		priceTier  string
		tags       []string
		rating     float64
		ratings    int
		views      int
		favorites  int
		completion float64
		ageDays    int
	}

	seeds := []seedBusiness{
		{"Eko Artisan Bakery", food, bakeries, 6.5244, 3.3792, "budget", []string{"delivery", "wifi"}, 4.6, 210, 3200, 140, 95, 420},
		{"Island Grind Coffee", food, cafes, 6.4281, 3.4216, "mid", []string{"wifi", "outdoor_seating"}, 4.3, 95, 1800, 60, 88, 230},
		{"Surulere Strength Gym", wellness, gyms, 6.5005, 3.3542, "mid", []string{"parking"}, 4.8, 310, 5400, 260, 100, 610},
		{"Yaba Vintage Finds", retail, "", 6.5095, 3.3711, "budget", nil, 3.9, 40, 700, 25, 60, 45},
		{"Lekki Morning Rolls", food, bakeries, 6.4478, 3.4723, "premium", []string{"delivery"}, 4.1, 28, 450, 18, 72, 12},
	}

	businessIDs := make([]string, 0, len(seeds))
	for _, s := range seeds {
		id := uuid.New().String()
		businessIDs = append(businessIDs, id)

		hoursJSON, _ := json.Marshal(hours)
		created := now.AddDate(0, 0, -s.ageDays)

		record := goqu.Record{
			"id":                 id,
			"owner_id":           ownerID,
			"name":               s.name,
			"street":             "1 Marina Rd",
			"city":               "Lagos",
			"state":              "Lagos",
			"zip_code":           "100001",
			"country":            "NG",
			"latitude":           s.lat,
			"longitude":          s.lon,
			"industry_id":        s.industry,
			"sub_industry_id":    nullable(s.sub),
			"price_tier":         s.priceTier,
			"feature_tags":       pq.Array(s.tags),
			"view_count":         s.views,
			"favorite_count":     s.favorites,
			"rating_average":     s.rating,
			"rating_count":       s.ratings,
			"completion_percent": s.completion,
			"logo_url":           "https://cdn.example.com/" + id + "/logo.png",
			"cover_image_url":    "https://cdn.example.com/" + id + "/cover.jpg",
			"short_description":  s.name + " in Lagos",
			"description":        "Seeded record for local development.",
			"page_id":            "page-" + id,
			"hours":              hoursJSON,
			"is_active":          true,
			"created_at":         created,
			"updated_at":         created,
		}

		mustExec(ctx, db, pgClient, "businesses", record)
		log.Printf("Seeded business %s", s.name)
	}

	// 3. Content blocks so seeded profiles pass the completeness gate
	for _, businessID := range businessIDs {
		for i := 0; i < 3; i++ {
			mustExec(ctx, db, pgClient, "content_blocks", goqu.Record{
				"id":          uuid.New().String(),
				"page_id":     "page-" + businessID,
				"business_id": businessID,
				"is_active":   true,
				"is_visible":  true,
				"created_at":  now,
			})
		}
	}

	// 4. View events and favorites for the browsing user
	for i, businessID := range businessIDs {
		for j := 0; j <= i; j++ {
			mustExec(ctx, db, pgClient, "view_events", goqu.Record{
				"id":          uuid.New().String(),
				"user_id":     browserID,
				"business_id": businessID,
				"viewed_at":   now.Add(-time.Duration(rand.Intn(72)) * time.Hour),
			})
		}
	}
	mustExec(ctx, db, pgClient, "favorites", goqu.Record{
		"id":          uuid.New().String(),
		"user_id":     browserID,
		"business_id": businessIDs[0],
		"created_at":  now,
	})

	// 5. Index into Typesense
	if searchRepo != nil {
		businessRepo := database.NewBusinessAdapter(pgClient)
		businesses, _, err := businessRepo.ListNewest(ctx, 0, 0)
		if err != nil {
			log.Fatalf("Failed to list businesses for indexing: %v", err)
		}
		for _, business := range businesses {
			if err := searchRepo.Index(ctx, business); err != nil {
				log.Printf("Failed to index %s: %v", business.Name, err)
			}
		}
		log.Printf("Indexed %d businesses", len(businesses))
	}

	log.Println("Seeding complete.")
}

func seedIndustry(ctx context.Context, db *goqu.Database, client *postgres.Client, title, parentID string) string {
	id := uuid.New().String()
	mustExec(ctx, db, client, "industries", goqu.Record{
		"id":         id,
		"title":      title,
		"parent_id":  nullable(parentID),
		"is_active":  true,
		"created_at": time.Now(),
	})
	return id
}

func seedUser(ctx context.Context, db *goqu.Database, client *postgres.Client, email, first, last string, lat, lon float64) string {
	id := uuid.New().String()
	mustExec(ctx, db, client, "users", goqu.Record{
		"id":         id,
		"email":      email,
		"first_name": first,
		"last_name":  last,
		"latitude":   lat,
		"longitude":  lon,
		"created_at": time.Now(),
		"updated_at": time.Now(),
	})
	return id
}

func mustExec(ctx context.Context, db *goqu.Database, client *postgres.Client, table string, record goqu.Record) {
	query, args, err := db.Insert(table).Rows(record).ToSQL()
	if err != nil {
		log.Fatalf("Failed to build %s insert: %v", table, err)
	}
	if _, err := client.DB().ExecContext(ctx, query, args...); err != nil {
		log.Fatalf("Failed to insert into %s: %v", table, err)
	}
}

func nullable(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
