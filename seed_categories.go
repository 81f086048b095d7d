package main

import (
	"log"

	"quickfix-server/database"
	"quickfix-server/models"
)

func seedServiceCategories() error {
	db := database.GetDB()

	categories := []models.ServiceCategory{
		{
			Name:      "Electrician",
			Icon:      "flash",
			Subtitle:  "Wiring, fittings & repairs",
			IsActive:  true,
			SortOrder: 1,
		},
		{
			Name:      "Plumber",
			Icon:      "water",
			Subtitle:  "Leaks, taps & pipelines",
			IsActive:  true,
			SortOrder: 2,
		},
		{
			Name:      "Carpenter",
			Icon:      "hammer",
			Subtitle:  "Furniture & woodwork",
			IsActive:  true,
			SortOrder: 3,
		},
		{
			Name:      "Cleaner",
			Icon:      "sparkles",
			Subtitle:  "Home & office cleaning",
			IsActive:  true,
			SortOrder: 4,
		},
		{
			Name:      "AC Technician",
			Icon:      "snow",
			Subtitle:  "AC service & installation",
			IsActive:  true,
			SortOrder: 5,
		},
		{
			Name:      "Painter",
			Icon:      "paint-roller",
			Subtitle:  "Interior & exterior painting",
			IsActive:  true,
			SortOrder: 6,
		},
		{
			Name:      "Appliance Repair",
			Icon:      "tools",
			Subtitle:  "Fridge, washing machine & more",
			IsActive:  true,
			SortOrder: 7,
		},
		{
			Name:      "Pest Control",
			Icon:      "bug",
			Subtitle:  "Safe & effective treatment",
			IsActive:  true,
			SortOrder: 8,
		},
	}

	for _, category := range categories {
		var existing models.ServiceCategory
		if err := db.Where("name = ?", category.Name).First(&existing).Error; err != nil {
			// Category doesn't exist, create it
			if err := db.Create(&category).Error; err != nil {
				log.Printf("Failed to create category %s: %v", category.Name, err)
				return err
			}
			log.Printf("✅ Created category: %s", category.Name)
		} else {
			log.Printf("⏭️  Category already exists: %s", category.Name)
		}
	}

	return nil
}
