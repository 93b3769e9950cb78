package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/bundlecart-backend/config"
	"github.com/ikkim/bundlecart-backend/internal/app/repository"
	"github.com/ikkim/bundlecart-backend/internal/db"
	"github.com/ikkim/bundlecart-backend/internal/importer"
	"github.com/ikkim/bundlecart-backend/pkg/util"
)

const usage = `Usage:
  go run cmd/seed/main.go stock <xlsx_file_path>   import variant stock levels
  go run cmd/seed/main.go token <email>            print an admin access token`

func main() {
	if len(os.Args) < 3 {
		log.Fatal(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	switch os.Args[1] {
	case "stock":
		importStock(cfg, os.Args[2])
	case "token":
		printToken(cfg, os.Args[2])
	default:
		log.Fatal(usage)
	}
}

func importStock(cfg *config.Config, filePath string) {
	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Failed to open file:", err)
	}
	defer f.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, skipped, err := importer.ReadStockRows(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Rows to import: %d (skipped %d)\n", len(rows), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm = strings.ToLower(strings.TrimSpace(confirm)); confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	conn := db.GetDB()
	stockImporter := importer.NewStockImporter(
		repository.NewCatalogRepository(conn),
		repository.NewInventoryRepository(conn),
	)
	summary, err := stockImporter.Import(rows)
	if err != nil {
		log.Fatalf("Import stopped after %d rows: %v", summary.Imported, err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total rows imported: %d\n", summary.Imported)
}

func printToken(cfg *config.Config, email string) {
	token, err := util.GenerateToken(email, util.RoleAdmin, cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	if err != nil {
		log.Fatal("Failed to generate token:", err)
	}
	fmt.Println(token)
}
