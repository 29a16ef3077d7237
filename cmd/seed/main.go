package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"gorm.io/gorm/clause"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/database"
	"github.com/foodgram-project/backend/internal/models"
)

// Seeds the tag and ingredient reference data from JSON files. Both
// catalogs are read-only through the API, so this is the only write path.

type ingredientData struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type tagData struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

func main() {
	ingredientsFile := flag.String("ingredients", "data/ingredients.json", "Path to the ingredients JSON file")
	tagsFile := flag.String("tags", "data/tags.json", "Path to the tags JSON file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var ingredients []ingredientData
	if err := loadJSON(*ingredientsFile, &ingredients); err != nil {
		log.Fatalf("Failed to load ingredients: %v", err)
	}

	seeded := 0
	for _, item := range ingredients {
		row := models.Ingredient{Name: item.Name, MeasurementUnit: item.MeasurementUnit}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "measurement_unit"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			log.Fatalf("Failed to seed ingredient %q: %v", item.Name, result.Error)
		}
		seeded += int(result.RowsAffected)
	}
	log.Printf("Seeded %d of %d ingredients", seeded, len(ingredients))

	var tags []tagData
	if err := loadJSON(*tagsFile, &tags); err != nil {
		log.Fatalf("Failed to load tags: %v", err)
	}

	seeded = 0
	for _, item := range tags {
		row := models.Tag{Name: item.Name, Color: item.Color, Slug: item.Slug}
		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).Create(&row)
		if result.Error != nil {
			log.Fatalf("Failed to seed tag %q: %v", item.Name, result.Error)
		}
		seeded += int(result.RowsAffected)
	}
	log.Printf("Seeded %d of %d tags", seeded, len(tags))
}

func loadJSON(path string, target interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(content, target)
}
