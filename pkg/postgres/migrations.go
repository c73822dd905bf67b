package postgres

import (
	"database/sql"
	"log"
)

// RunMigrations executes database migrations for the given service.
func RunMigrations(db *sql.DB, service string) error {
	migrations := getServiceMigrations(service)
	for _, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return err
		}
	}
	log.Printf("Migrations completed for service: %s", service)
	return nil
}

func getServiceMigrations(service string) []string {
	switch service {
	case "user":
		return []string{
			`CREATE TABLE IF NOT EXISTS users (
				id SERIAL PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				email VARCHAR(255) NOT NULL UNIQUE,
				created_at TIMESTAMP NOT NULL DEFAULT NOW()
			)`,
		}
	case "order":
		return []string{
			`CREATE TABLE IF NOT EXISTS orders (
				id SERIAL PRIMARY KEY,
				user_id INTEGER NOT NULL,
				user_name VARCHAR(255) NOT NULL,
				user_email VARCHAR(255) NOT NULL,
				product_name VARCHAR(255) NOT NULL,
				amount NUMERIC(12,2) NOT NULL,
				order_date TIMESTAMP NOT NULL DEFAULT NOW(),
				status VARCHAR(50) NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders (user_id)`,
		}
	default:
		return nil
	}
}
