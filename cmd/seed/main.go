package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spacehub/spacehub-backend/internal/config"
	"github.com/spacehub/spacehub-backend/internal/db"
)

type seedRequest struct {
	GuestUID  string
	SpaceType string
	Purpose   string
	Capacity  int
	Equipment []string
	Location  string
	Date      string
	TimeSlot  string
	Category  string
}

type seedQuote struct {
	HostUID           string
	SpaceName         string
	Price             int64
	Description       string
	EstimatedDuration string
	Items             []struct {
		Name  string
		Price int64
	}
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
}

func run() (err error) {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	gdb, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("sql db: %w", err)
	}

	requests := buildSeedRequests()

	canSeed, err := shouldSeed(ctx, sqlDB)
	if err != nil {
		return err
	}
	if !canSeed {
		log.Printf("space requests already exist; skipping seed (set FORCE_SEED=true to override)")
		return nil
	}

	tx, err := sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `TRUNCATE TABLE quote_items`); err != nil {
		return fmt.Errorf("truncate quote_items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `TRUNCATE TABLE quotes`); err != nil {
		return fmt.Errorf("truncate quotes: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `TRUNCATE TABLE space_requests`); err != nil {
		return fmt.Errorf("truncate space_requests: %w", err)
	}

	quoted := 0
	for idx, r := range requests {
		requestID, err := insertRequest(ctx, tx, r)
		if err != nil {
			return err
		}
		// every third request gets a quote so both statuses show up
		if idx%3 == 0 {
			q := buildSeedQuote(idx)
			if err := insertQuote(ctx, tx, requestID, r.GuestUID, q); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `UPDATE space_requests SET status = 'quoted' WHERE id = ?`, requestID); err != nil {
				return fmt.Errorf("mark quoted %d: %w", requestID, err)
			}
			quoted++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Printf("seeded %d requests (%d quoted)", len(requests), quoted)
	return nil
}

func buildSeedRequests() []seedRequest {
	type tmpl struct {
		SpaceType string
		Purpose   string
		Capacity  int
		Equipment []string
		Category  string
		Locations []string
	}
	templates := []tmpl{
		{SpaceType: "meeting-room", Purpose: "offsite planning session", Capacity: 12, Equipment: []string{"projector", "whiteboard"}, Category: "business", Locations: []string{"Shibuya", "Shinjuku", "Yokohama"}},
		{SpaceType: "event-hall", Purpose: "product launch party", Capacity: 80, Equipment: []string{"stage", "pa-system"}, Category: "event", Locations: []string{"Roppongi", "Odaiba"}},
		{SpaceType: "studio", Purpose: "podcast recording", Capacity: 4, Equipment: []string{"microphones", "soundproofing"}, Category: "creative", Locations: []string{"Nakameguro", "Kichijoji"}},
		{SpaceType: "kitchen", Purpose: "cooking workshop", Capacity: 10, Equipment: []string{"ovens", "counter-space"}, Category: "workshop", Locations: []string{"Jiyugaoka", "Kawasaki"}},
		{SpaceType: "gallery", Purpose: "photo exhibition weekend", Capacity: 30, Equipment: []string{"track-lighting"}, Category: "art", Locations: []string{"Ginza", "Kiyosumi"}},
		{SpaceType: "rooftop", Purpose: "company barbecue", Capacity: 25, Equipment: []string{"grill", "tables"}, Category: "outdoor", Locations: []string{"Ebisu", "Tennozu"}},
	}

	var out []seedRequest
	for ti, t := range templates {
		for li, loc := range t.Locations {
			out = append(out, seedRequest{
				GuestUID:  fmt.Sprintf("seed-guest-%02d", ti+1),
				SpaceType: t.SpaceType,
				Purpose:   t.Purpose,
				Capacity:  t.Capacity + li*2,
				Equipment: t.Equipment,
				Location:  loc,
				Date:      fmt.Sprintf("2026-09-%02d", 10+ti*3+li),
				TimeSlot:  "13:00-17:00",
				Category:  t.Category,
			})
		}
	}
	return out
}

func buildSeedQuote(idx int) seedQuote {
	base := int64(40000 + idx*5000)
	q := seedQuote{
		HostUID:           fmt.Sprintf("seed-host-%02d", idx%4+1),
		SpaceName:         fmt.Sprintf("Sample Space %02d", idx+1),
		Price:             base,
		Description:       "Bright space close to the station. Setup and teardown included.",
		EstimatedDuration: "4 hours",
	}
	q.Items = append(q.Items, struct {
		Name  string
		Price int64
	}{Name: "room rental", Price: base - 8000})
	q.Items = append(q.Items, struct {
		Name  string
		Price int64
	}{Name: "equipment", Price: 8000})
	return q
}

func insertRequest(ctx context.Context, tx *sql.Tx, r seedRequest) (int64, error) {
	equipment, err := json.Marshal(r.Equipment)
	if err != nil {
		return 0, fmt.Errorf("marshal equipment: %w", err)
	}
	query := fmt.Sprintf("Looking for a %s in %s for %s, around %d people.", r.SpaceType, r.Location, r.Purpose, r.Capacity)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO space_requests
		 (guest_uid, original_query, space_type, purpose, capacity, equipment, catering, parking, additional_request, date, location, time_slot, category, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending')`,
		r.GuestUID, query, r.SpaceType, r.Purpose, r.Capacity, string(equipment), false, false, "", r.Date, r.Location, r.TimeSlot, r.Category,
	)
	if err != nil {
		return 0, fmt.Errorf("insert request %q: %w", r.Purpose, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("request last insert id: %w", err)
	}
	return id, nil
}

func insertQuote(ctx context.Context, tx *sql.Tx, requestID int64, guestUID string, q seedQuote) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO quotes
		 (request_id, guest_uid, host_uid, space_name, price, description, estimated_duration, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 'unread')`,
		requestID, guestUID, q.HostUID, q.SpaceName, q.Price, q.Description, q.EstimatedDuration,
	)
	if err != nil {
		return fmt.Errorf("insert quote for request %d: %w", requestID, err)
	}
	quoteID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("quote last insert id: %w", err)
	}
	for _, it := range q.Items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quote_items (quote_id, name, price) VALUES (?, ?, ?)`,
			quoteID, it.Name, it.Price,
		); err != nil {
			return fmt.Errorf("insert quote item %q: %w", it.Name, err)
		}
	}
	return nil
}

func shouldSeed(ctx context.Context, db *sql.DB) (bool, error) {
	var cnt int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM space_requests`).Scan(&cnt); err != nil {
		return false, fmt.Errorf("count space_requests: %w", err)
	}
	if cnt == 0 {
		return true, nil
	}
	force := os.Getenv("FORCE_SEED")
	return strings.EqualFold(force, "true"), nil
}
