package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/xpensecontrol/xpense/internal/category"
)

// defaultCategories is the starter set every fresh install gets; the write
// path only accepts transactions whose category name already exists.
var defaultCategories = []string{
	"Salary",
	"Investments",
	"Food",
	"Housing",
	"Transport",
	"Health",
	"Leisure",
	"Education",
	"Other",
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default categories",
	Long:  `Seed the database with the default category set for development and fresh installs.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM transactions").Error; err != nil {
				log.Fatalf("failed to clear transactions: %v", err)
			}
			if err := db.Exec("DELETE FROM categories").Error; err != nil {
				log.Fatalf("failed to clear categories: %v", err)
			}
			fmt.Println("Cleared existing transactions and categories")
		}

		for _, name := range defaultCategories {
			var exists int
			row := db.Raw("SELECT 1 FROM categories WHERE name = ?", name).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}

			if err := db.Create(&category.Category{Name: name}).Error; err != nil {
				log.Fatalf("failed to insert category %s: %v", name, err)
			}
			fmt.Printf("Seeded category: %s\n", name)
		}

		fmt.Println("Categories seeded successfully")
	},
}
