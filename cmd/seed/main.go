package main

import (
	"context"
	"log"
	"os"
	"time"

	"estatedesk-backend/internal/admins"
	"estatedesk-backend/internal/auth"
	"estatedesk-backend/internal/config"
	"estatedesk-backend/internal/db"
	"estatedesk-backend/internal/listings"
	"estatedesk-backend/internal/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type seedListing struct {
	Name        string
	ProjectType string
	Description string
	Price       string
	Beds        string
	CityID      string
	StateID     string
	CityName    string
	StateName   string
	Locality    string
	Latitude    float64
	Longitude   float64
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	samples := []seedListing{
		{
			Name:        "Lakeview Residency",
			ProjectType: "Apartment",
			Description: "Premium 2 and 3 BHK apartments overlooking the lake, with a clubhouse and landscaped gardens.",
			Price:       "7500000",
			Beds:        "3",
			CityID:      "1",
			StateID:     "1",
			CityName:    "Pune",
			StateName:   "Maharashtra",
			Locality:    "Baner",
			Latitude:    18.559,
			Longitude:   73.789,
		},
		{
			Name:        "Green Meadows Villas",
			ProjectType: "Villa",
			Description: "Gated villa community with private gardens and 24x7 security.",
			Price:       "21500000",
			Beds:        "4",
			CityID:      "2",
			StateID:     "1",
			CityName:    "Mumbai",
			StateName:   "Maharashtra",
			Locality:    "Thane West",
			Latitude:    19.218,
			Longitude:   72.978,
		},
		{
			Name:        "Skyline Towers",
			ProjectType: "Apartment",
			Description: "High-rise living in the city centre, walking distance from the metro.",
			Price:       "12900000",
			Beds:        "2",
			CityID:      "3",
			StateID:     "2",
			CityName:    "Bengaluru",
			StateName:   "Karnataka",
			Locality:    "Whitefield",
			Latitude:    12.969,
			Longitude:   77.75,
		},
	}

	now := time.Now().In(cfg.Timezone)
	for _, sample := range samples {
		id := uuid.NewString()
		slug := utils.Slugify(sample.Name)
		listing := listings.Listing{
			ID:          id,
			Slug:        slug,
			Name:        sample.Name,
			ProjectType: sample.ProjectType,
			Description: sample.Description,
			Price:       sample.Price,
			Beds:        sample.Beds,
			CityID:      sample.CityID,
			StateID:     sample.StateID,
			CityName:    sample.CityName,
			StateName:   sample.StateName,
			Locality:    sample.Locality,
			Latitude:    sample.Latitude,
			Longitude:   sample.Longitude,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		filter := bson.M{"slug": slug}
		update := bson.M{"$setOnInsert": listing}
		if _, err := cols.Listings.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			log.Fatalf("seed error for %s: %v", sample.Name, err)
		}
	}

	username := envOrDefault("ADMIN_USER", "admin")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("seed admin: ADMIN_PASSWORD missing, skipping admin user")
	} else {
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatal(err)
		}
		repo := admins.NewRepository(cols.AdminUsers)
		user := admins.AdminUser{
			ID:           uuid.NewString(),
			Username:     username,
			Email:        envOrDefault("ADMIN_EMAIL", ""),
			PasswordHash: hash,
			Role:         admins.RoleAdmin,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repo.Upsert(ctx, user); err != nil {
			log.Fatalf("seed admin error: %v", err)
		}
	}

	log.Println("seed completed")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
