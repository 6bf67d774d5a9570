// Command migrate applies the SQL files under migrations/ in order,
// tracking applied files in schema_migrations so reruns are safe.
package main

import (
	"database/sql"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"
)

// dedupIndexes are the partial unique indexes that back the store-side
// duplicate checks on contacts. --verify fails if any is missing.
var dedupIndexes = []string{
	"unique_tenant_email",
	"unique_tenant_phone",
	"unique_tenant_external_id",
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("[Migrate] DATABASE_URL is required")
	}

	dir := "migrations"
	verify := false
	for _, a := range os.Args[1:] {
		if a == "--verify" {
			verify = true
		} else {
			dir = a
		}
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("[Migrate] connect: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("[Migrate] ping: %v", err)
	}

	if verify {
		if err := verifySchema(db); err != nil {
			log.Fatalf("[Migrate] verify: %v", err)
		}
		log.Println("[Migrate] schema verified: contact dedup indexes present")
		return
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		log.Fatalf("[Migrate] create schema_migrations: %v", err)
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		log.Fatalf("[Migrate] read schema_migrations: %v", err)
	}

	files, err := sqlFiles(dir)
	if err != nil {
		log.Fatalf("[Migrate] read %s: %v", dir, err)
	}

	todo := pendingMigrations(applied, files)
	if len(todo) == 0 {
		log.Printf("[Migrate] up to date (%d applied)", len(applied))
		return
	}

	for _, f := range todo {
		data, err := os.ReadFile(filepath.Join(dir, f))
		if err != nil {
			log.Fatalf("[Migrate] read %s: %v", f, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			log.Printf("[Migrate] %s: empty, skipped", f)
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("[Migrate] begin: %v", err)
		}
		if _, err := tx.Exec(string(data)); err != nil {
			tx.Rollback()
			log.Fatalf("[Migrate] %s: %v", f, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (filename) VALUES ($1)", f); err != nil {
			tx.Rollback()
			log.Fatalf("[Migrate] record %s: %v", f, err)
		}
		if err := tx.Commit(); err != nil {
			log.Fatalf("[Migrate] commit %s: %v", f, err)
		}
		log.Printf("[Migrate] %s: applied", f)
	}
	log.Printf("[Migrate] done: %d applied, %d already in place", len(todo), len(applied))
}

func appliedMigrations(db *sql.DB) (map[string]bool, error) {
	rows, err := db.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		applied[f] = true
	}
	return applied, rows.Err()
}

// sqlFiles returns the .sql entries of dir sorted by name, so numeric
// prefixes (001_, 002_) set the apply order.
func sqlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// pendingMigrations filters out already-applied files, preserving order.
func pendingMigrations(applied map[string]bool, files []string) []string {
	var todo []string
	for _, f := range files {
		if !applied[f] {
			todo = append(todo, f)
		}
	}
	return todo
}

// verifySchema checks that the people_contacts and campaigns tables
// exist and that every partial unique index the importer relies on for
// duplicate detection is in place.
func verifySchema(db *sql.DB) error {
	for _, table := range []string{"people_contacts", "campaigns"} {
		var exists bool
		err := db.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM pg_tables WHERE schemaname='public' AND tablename=$1)",
			table).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return &missingObjectError{kind: "table", name: table}
		}
	}
	for _, idx := range dedupIndexes {
		var exists bool
		err := db.QueryRow(
			"SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE schemaname='public' AND indexname=$1)",
			idx).Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			return &missingObjectError{kind: "index", name: idx}
		}
	}
	return nil
}

type missingObjectError struct {
	kind string
	name string
}

func (e *missingObjectError) Error() string {
	return "missing " + e.kind + " " + e.name
}
