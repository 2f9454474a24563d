package main

import (
	"log"

	"github.com/malcolmm20/farmlink/internal/config"
	"github.com/malcolmm20/farmlink/internal/logger"
	"github.com/malcolmm20/farmlink/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	password, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}

	farmers := []models.User{
		{
			Name:         "Rosa Alvarez",
			Username:     "greenacres",
			PasswordHash: string(password),
			Role:         "farmer",
			Location:     "Petaluma, CA",
			Description:  "Third-generation vegetable grower.",
			FarmInfo: models.FarmInfo{
				FarmName:               "Green Acres Farm",
				FarmAddress:            "1200 Valley Rd, Petaluma, CA",
				FarmPhone:              "707-555-0134",
				FarmEmail:              "hello@greenacres.example",
				FarmHours:              "Tue-Sat 8am-4pm",
				FarmPickupInstructions: "Drive past the red barn, pickup shed on the left.",
				FarmDescription:        "Certified organic vegetables and herbs.",
				FarmImage:              "https://images.unsplash.com/photo-1500937386664-56d1dfef3854?w=800",
			},
		},
		{
			Name:         "Sam Whitfield",
			Username:     "hilltopdairy",
			PasswordHash: string(password),
			Role:         "farmer",
			Location:     "Sonoma, CA",
			Description:  "Small pasture dairy and orchard.",
			FarmInfo: models.FarmInfo{
				FarmName:               "Hilltop Dairy & Orchard",
				FarmAddress:            "88 Hilltop Ln, Sonoma, CA",
				FarmPhone:              "707-555-0188",
				FarmEmail:              "orders@hilltopdairy.example",
				FarmHours:              "Daily 7am-12pm",
				FarmPickupInstructions: "Ring the bell at the farm stand.",
				FarmDescription:        "Raw milk cheeses, eggs, and stone fruit.",
				FarmImage:              "https://images.unsplash.com/photo-1516253593875-bd7ba052fbc5?w=800",
			},
		},
	}

	customers := []models.User{
		{
			Name:         "Jamie Park",
			Username:     "jamiep",
			PasswordHash: string(password),
			Role:         "customer",
			Location:     "Santa Rosa, CA",
		},
	}

	farmIDs := map[string]uint{}
	for _, u := range farmers {
		seeded := seedUser(stdLog, u)
		if seeded != nil {
			farmIDs[seeded.Username] = seeded.ID
		}
	}
	for _, u := range customers {
		seedUser(stdLog, u)
	}

	products := []models.Product{
		{
			Name:        "Heirloom Tomatoes",
			Description: "Mixed heirloom varieties picked at peak ripeness.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(4.50)),
			Category:    "vegetables",
			Image:       "https://images.unsplash.com/photo-1582284540020-8acbe03f4924?w=800",
			Unit:        "lb",
			Stock:       40,
			FarmID:      farmIDs["greenacres"],
		},
		{
			Name:        "Rainbow Chard",
			Description: "Bunched rainbow chard, cut the same morning.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(3.00)),
			Category:    "vegetables",
			Image:       "https://images.unsplash.com/photo-1576045057995-568f588f82fb?w=800",
			Unit:        "bunch",
			Stock:       25,
			FarmID:      farmIDs["greenacres"],
		},
		{
			Name:        "Pasture Eggs",
			Description: "One dozen eggs from pastured hens.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(7.00)),
			Category:    "dairy",
			Image:       "https://images.unsplash.com/photo-1506976785307-8732e854ad03?w=800",
			Unit:        "dozen",
			Stock:       18,
			FarmID:      farmIDs["hilltopdairy"],
		},
		{
			Name:        "Aged Farmhouse Cheddar",
			Description: "Raw milk cheddar aged twelve months.",
			Price:       models.NewMoneyFromDecimal(decimal.NewFromFloat(12.50)),
			Category:    "dairy",
			Image:       "https://images.unsplash.com/photo-1486297678162-eb2a19b0a32d?w=800",
			Unit:        "lb",
			Stock:       10,
			FarmID:      farmIDs["hilltopdairy"],
		},
	}

	for _, p := range products {
		if p.FarmID == 0 {
			stdLog.Printf("Skipping product %s: farm not seeded", p.Name)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("name = ? AND farm_id = ?", p.Name, p.FarmID).First(&existing).Error; err != nil {
			p.Available = p.Stock > 0
			if err := models.DB.Create(&p).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", p.Name, err)
			} else {
				stdLog.Printf("Created product: %s", p.Name)
			}
		} else {
			stdLog.Printf("Product already exists: %s", p.Name)
		}
	}

	stdLog.Printf("Seed complete")
}

func seedUser(stdLog *log.Logger, u models.User) *models.User {
	var existing models.User
	if err := models.DB.Where("username = ?", u.Username).First(&existing).Error; err == nil {
		stdLog.Printf("User already exists: %s", u.Username)
		return &existing
	}
	if err := models.DB.Create(&u).Error; err != nil {
		stdLog.Printf("Failed to create user %s: %v", u.Username, err)
		return nil
	}
	stdLog.Printf("Created user: %s", u.Username)
	return &u
}
