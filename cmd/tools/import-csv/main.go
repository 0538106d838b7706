// import-csv is the one-time bulk loader: it seeds the store from a
// directory of fixed-format per-table CSV files.
package main

import (
	"flag"
	"log"

	"reviewhub/pkg/database"
)

func main() {
	dbPath := flag.String("db", "./data/reviewhub.db", "path to the SQLite database")
	dataDir := flag.String("data", "./data/csv", "directory with the CSV fixture files")
	flag.Parse()

	db, err := database.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	n, err := database.ImportCSVDir(db, *dataDir)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Imported %d rows from %s into %s", n, *dataDir, *dbPath)
}
