package db

import (
	"context"
	"fmt"
	"log"
)

// schema is applied on every boot; all statements are create-if-absent.
// Foreign keys are informational only, nothing relies on cascade behavior.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    is_banned BOOLEAN NOT NULL DEFAULT FALSE,
    is_verified BOOLEAN NOT NULL DEFAULT FALSE,
    balance DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS listings (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT REFERENCES users(id),
    type TEXT CHECK (type IN ('task', 'rental')),
    title TEXT NOT NULL,
    description TEXT,
    price DOUBLE PRECISION NOT NULL,
    category TEXT,
    status TEXT NOT NULL DEFAULT 'active',
    commission_paid DOUBLE PRECISION,
    image_url TEXT
);

CREATE TABLE IF NOT EXISTS transactions (
    id BIGSERIAL PRIMARY KEY,
    listing_id BIGINT REFERENCES listings(id),
    buyer_id BIGINT REFERENCES users(id),
    amount DOUBLE PRECISION,
    fee DOUBLE PRECISION,
    duration TEXT,
    due_date TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS messages (
    id BIGSERIAL PRIMARY KEY,
    sender_id BIGINT REFERENCES users(id),
    receiver_id BIGINT REFERENCES users(id),
    listing_id BIGINT REFERENCES listings(id),
    content TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// EnsureSchema creates the four tables if they do not exist yet.
func EnsureSchema(ctx context.Context) error {
	if _, err := Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

type seedListing struct {
	kind        string
	title       string
	description string
	price       float64
	category    string
	imageURL    string
}

var seedListings = []seedListing{
	{"task", "Professional Dog Walking", "I will walk your dog for 1 hour in the local park. Experienced with all breeds.", 250, "Pet Care", "https://picsum.photos/seed/golden-retriever/800/600"},
	{"task", "House Cleaning Service", "Deep cleaning for apartments and houses. All supplies included.", 1500, "Home Assistance", "https://picsum.photos/seed/cleaning-service/800/600"},
	{"task", "Furniture Assembly", "Expert IKEA furniture assembly. Fast and reliable.", 800, "Home Assistance", "https://picsum.photos/seed/furniture-assembly/800/600"},
	{"task", "Baby Sitting", "Responsible and caring babysitter available for evenings and weekends.", 500, "Child Minding", "https://picsum.photos/seed/baby-sitting/800/600"},
	{"rental", "Sony A7III Camera Kit", "Full frame mirrorless camera with 24-70mm f2.8 lens. Perfect for events.", 2500, "Equipment", "https://picsum.photos/seed/sony-camera/800/600"},
	{"rental", "Electric Mountain Bike", "High-performance e-bike with 50-mile range. Helmet included.", 1200, "Other", "https://picsum.photos/seed/ebike/800/600"},
	{"rental", "Camping Tent (4 Person)", "Waterproof 4-person tent. Easy setup. Includes ground sheet.", 500, "Other", "https://picsum.photos/seed/camping-tent/800/600"},
	{"rental", "Power Drill Set", "Professional grade cordless power drill with multiple bits.", 300, "Equipment", "https://picsum.photos/seed/power-drill/800/600"},
}

// CommissionRate is the fixed marketplace cut applied at creation time.
const CommissionRate = 0.05

// SeedDemoData inserts the demo user and listings on first boot. It is a
// no-op once any user row exists.
func SeedDemoData(ctx context.Context) error {
	var userCount int
	if err := Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	var userID int64
	err := Pool.QueryRow(ctx, `
        INSERT INTO users (name, email, balance, is_verified)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, "Demo User", "demo@huslr.app", 1000.0, true).Scan(&userID)
	if err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	for _, l := range seedListings {
		_, err := Pool.Exec(ctx, `
            INSERT INTO listings (user_id, type, title, description, price, category, commission_paid, image_url)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        `, userID, l.kind, l.title, l.description, l.price, l.category, l.price*CommissionRate, l.imageURL)
		if err != nil {
			return fmt.Errorf("seeding listing %q: %w", l.title, err)
		}
	}

	log.Printf("✅ seeded demo user %d with %d listings", userID, len(seedListings))
	return nil
}
