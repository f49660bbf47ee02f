package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/messup/backend/internal/adapters/database"
	"github.com/messup/backend/internal/domain/entities"
	"github.com/messup/backend/internal/infrastructure/clients/postgres"
	"github.com/messup/backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	email         TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	room_no       TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL DEFAULT 'user',
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS menu (
	id         TEXT PRIMARY KEY,
	item       TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS feedbacks (
	id         TEXT PRIMARY KEY,
	user_email TEXT NOT NULL,
	feedback   TEXT NOT NULL,
	status     TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leave_requests (
	id         TEXT PRIMARY KEY,
	user_email TEXT NOT NULL,
	reason     TEXT NOT NULL,
	status     TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY,
	user_email TEXT NOT NULL,
	item       TEXT NOT NULL,
	status     TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS announcements (
	id        TEXT PRIMARY KEY,
	title     TEXT NOT NULL,
	message   TEXT NOT NULL,
	timestamp TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_feedbacks_user_email ON feedbacks (user_email);
CREATE INDEX IF NOT EXISTS idx_leave_requests_user_email ON leave_requests (user_email);
CREATE INDEX IF NOT EXISTS idx_orders_user_email ON orders (user_email);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to create schema: %v", err)
	}
	log.Println("Schema ensured")

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				feedbacks,
				leave_requests,
				orders,
				announcements,
				menu,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	userRepo := database.NewUserAdapter(pgClient)
	menuRepo := database.NewMenuAdapter(pgClient)
	announcementRepo := database.NewAnnouncementAdapter(pgClient)

	// 1. Seed the admin account
	adminEmail := os.Getenv("SEED_ADMIN_EMAIL")
	if adminEmail == "" {
		adminEmail = "admin@messup.local"
	}
	adminPassword := os.Getenv("SEED_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "changeme"
		log.Println("SEED_ADMIN_PASSWORD not set, using default (change it)")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &entities.User{
		Email:        adminEmail,
		Name:         "Mess Admin",
		Role:         entities.RoleAdmin,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := userRepo.Upsert(ctx, admin); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}
	log.Printf("Admin account seeded: %s", adminEmail)

	// 2. Seed a starter menu
	menuItems := []string{
		"Idli with Sambar",
		"Masala Dosa",
		"Veg Thali",
		"Chicken Curry with Rice",
		"Chapati with Dal",
	}
	for _, item := range menuItems {
		menuItem := &entities.MenuItem{
			ID:        uuid.New().String(),
			Item:      item,
			CreatedAt: time.Now().UTC(),
		}
		if err := menuRepo.Create(ctx, menuItem); err != nil {
			log.Printf("Failed to create menu item %q: %v", item, err)
		}
	}
	log.Printf("Seeded %d menu items", len(menuItems))

	// 3. Seed a welcome announcement
	announcement := &entities.Announcement{
		ID:        uuid.New().String(),
		Title:     "Welcome to MessUp",
		Message:   "Menu, feedback, leave requests and orders are now managed here.",
		Timestamp: time.Now().UTC(),
	}
	if err := announcementRepo.Create(ctx, announcement); err != nil {
		log.Printf("Failed to create welcome announcement: %v", err)
	}

	log.Println("Seeding complete")
}
