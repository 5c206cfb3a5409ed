package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	fmt.Println("=== Database Initialization Script ===")
	fmt.Println()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Could not load .env file: %v\n", err)
	}

	// Get database URL
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Println("DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	// First connect to default 'postgres' database to create our database
	postgresURL := strings.Replace(databaseURL, "/engage", "/postgres", 1)
	fmt.Println("Connecting to PostgreSQL server...")

	adminConn, err := pgx.Connect(ctx, postgresURL)
	if err != nil {
		fmt.Printf("Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}

	// Check if database exists
	var exists bool
	err = adminConn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = 'engage')").Scan(&exists)
	if err != nil {
		fmt.Printf("Failed to check database existence: %v\n", err)
		adminConn.Close(ctx)
		os.Exit(1)
	}

	if !exists {
		fmt.Println("Creating 'engage' database...")
		_, err = adminConn.Exec(ctx, "CREATE DATABASE engage")
		if err != nil {
			fmt.Printf("Failed to create database: %v\n", err)
			adminConn.Close(ctx)
			os.Exit(1)
		}
		fmt.Println("Database 'engage' created!")
	} else {
		fmt.Println("Database 'engage' already exists")
	}
	adminConn.Close(ctx)

	// Now connect to the engage database
	fmt.Println("Connecting to engage database...")
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	fmt.Println("Connected to database successfully!")
	fmt.Println()

	// Read SQL file
	fmt.Println("Reading SQL schema file...")
	sqlBytes, err := os.ReadFile("scripts/init_database.sql")
	if err != nil {
		fmt.Printf("Failed to read SQL file: %v\n", err)
		os.Exit(1)
	}

	// Execute SQL
	fmt.Println("Executing database schema...")
	_, err = conn.Exec(ctx, string(sqlBytes))
	if err != nil {
		fmt.Printf("Failed to execute SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database schema executed successfully!")
	fmt.Println()

	// Verify by listing the seeded needs
	fmt.Println("Verifying database setup...")

	var needCount int
	err = conn.QueryRow(ctx, "SELECT COUNT(*) FROM needs").Scan(&needCount)
	if err != nil {
		fmt.Printf("Warning: Could not count needs: %v\n", err)
	} else {
		fmt.Printf("   Needs in database: %d\n", needCount)
	}

	rows, err := conn.Query(ctx, "SELECT id, need_id, title, urgency, status FROM needs ORDER BY id")
	if err != nil {
		fmt.Printf("Warning: Could not fetch needs: %v\n", err)
	} else {
		defer rows.Close()
		fmt.Println()
		fmt.Println("   Needs:")
		for rows.Next() {
			var id int
			var needID, title, urgency, status string
			if err := rows.Scan(&id, &needID, &title, &urgency, &status); err == nil {
				fmt.Printf("   %d. %s [%s]\n", id, title, needID)
				fmt.Printf("      Urgency: %q | Status: %s\n", urgency, status)
			}
		}
	}

	fmt.Println()
	fmt.Println("Database initialization completed successfully!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Start the API server: go run cmd/server/main.go")
	fmt.Println("  2. Upload a member CSV to POST /api/upload")
}
