package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

var doctorRows = []struct {
	name      string
	specialty string
}{
	{"Dr. Smith", "General Medicine"},
	{"Dr. Johnson", "Cardiology"},
	{"Dr. Williams", "Dermatology"},
	{"Dr. Brown", "Orthopedics"},
	{"Dr. Jones", "Pediatrics"},
}

var diseaseRows = []struct {
	disease   string
	specialty string
}{
	{"fever", "General Medicine"},
	{"cold", "General Medicine"},
	{"chest pain", "Cardiology"},
	{"hypertension", "Cardiology"},
	{"rash", "Dermatology"},
	{"acne", "Dermatology"},
	{"back pain", "Orthopedics"},
	{"fracture", "Orthopedics"},
	{"child fever", "Pediatrics"},
}

func main() {
	_ = godotenv.Load()
	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	for _, d := range doctorRows {
		_, err := pool.Exec(ctx, `
			INSERT INTO doctors (name, specialty)
			VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET specialty = EXCLUDED.specialty
		`, d.name, d.specialty)
		if err != nil {
			log.Fatalf("seed doctor %s: %v", d.name, err)
		}
	}

	for _, m := range diseaseRows {
		_, err := pool.Exec(ctx, `
			INSERT INTO disease_specialties (disease, specialty)
			VALUES ($1, $2)
			ON CONFLICT (disease) DO UPDATE SET specialty = EXCLUDED.specialty
		`, m.disease, m.specialty)
		if err != nil {
			log.Fatalf("seed disease %s: %v", m.disease, err)
		}
	}

	fmt.Printf("seeded %d doctors and %d disease mappings\n", len(doctorRows), len(diseaseRows))
}
