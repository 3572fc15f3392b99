// Command seed populates demo catalog data: bins, tasks, waste guide
// entries and the rewards catalog. User accounts are created through the
// registration endpoint, never here. Each table is only seeded when empty,
// so the command is safe to re-run.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/ecocollect/platform/internal/config"
	"github.com/ecocollect/platform/internal/database"
	"github.com/ecocollect/platform/internal/model"
	"github.com/ecocollect/platform/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seedBins(ctx, db); err != nil {
		log.Fatalf("seed bins: %v", err)
	}
	if err := seedTasks(ctx, db); err != nil {
		log.Fatalf("seed tasks: %v", err)
	}
	if err := seedRewards(ctx, db); err != nil {
		log.Fatalf("seed rewards: %v", err)
	}
	if err := seedWasteGuide(ctx, db); err != nil {
		log.Fatalf("seed waste guide: %v", err)
	}
	log.Println("seed completed")
}

func tableEmpty(ctx context.Context, db *sql.DB, table string) (bool, error) {
	var n int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

func seedBins(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "bins")
	if err != nil || !empty {
		return err
	}
	bins := []model.Bin{
		{Location: "Place des Martyrs", Latitude: 36.785, Longitude: 3.060, FillLevel: 45, Status: "optimal", WasteType: "general"},
		{Location: "Grande Poste", Latitude: 36.775, Longitude: 3.058, FillLevel: 85, Status: "critical", WasteType: "plastic"},
		{Location: "Didouche Mourad", Latitude: 36.768, Longitude: 3.052, FillLevel: 20, Status: "optimal", WasteType: "paper"},
		{Location: "Garden City", Latitude: 36.750, Longitude: 2.980, FillLevel: 65, Status: "warning", WasteType: "glass"},
	}
	for _, b := range bins {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO bins (location, latitude, longitude, fill_level, status, waste_type) VALUES (?,?,?,?,?,?)",
			b.Location, b.Latitude, b.Longitude, b.FillLevel, b.Status, b.WasteType); err != nil {
			return err
		}
	}
	return nil
}

func seedTasks(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "tasks")
	if err != nil || !empty {
		return err
	}
	repo := repository.NewTaskRepo(db)
	tasks := []model.Task{
		{Address: "12 Rue Didouche Mourad", Type: "Residential", Bins: 3, TimeWindow: "08:00 - 10:00"},
		{Address: "Blvd Mohamed V", Type: "Commercial", Bins: 5, TimeWindow: "09:15 - 11:00"},
		{Address: "Hydra Residence", Type: "Recycling", Bins: 2, TimeWindow: "10:30 - 12:00"},
	}
	for i := range tasks {
		if err := repo.Create(ctx, &tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

func seedRewards(ctx context.Context, db *sql.DB) error {
	empty, err := tableEmpty(ctx, db, "rewards")
	if err != nil || !empty {
		return err
	}
	rewards := []model.Reward{
		{Title: "Grocer Discount", Description: "200 DZD off your next purchase at local partner grocers.", PointsCost: 500, Category: "Groceries"},
		{Title: "Free Transit Pass", Description: "Unlimited bus/metro rides for 24 hours in Algiers.", PointsCost: 800, Category: "Transit"},
		{Title: "Plant a Cedar", Description: "We will plant a cedar tree in your name in the Blida mountains.", PointsCost: 1200, Category: "Eco"},
		{Title: "Artisanal Coffee", Description: "One free cup of traditional coffee at participating cafes.", PointsCost: 300, Category: "Food"},
	}
	for _, rw := range rewards {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO rewards (title, description, points_cost, category) VALUES (?,?,?,?)",
			rw.Title, rw.Description, rw.PointsCost, rw.Category); err != nil {
			return err
		}
	}
	return nil
}

func seedWasteGuide(ctx context.Context, db *sql.DB) error {
	repo := repository.NewWasteGuideRepo(db)
	items := []model.WasteGuideItem{
		{Name: "Plastic Bottle", Category: "plastic", Instructions: "Rinse and remove cap. Place in blue bin."},
		{Name: "Paper Box", Category: "paper", Instructions: "Flatten box. Place in yellow bin."},
		{Name: "Apple Core", Category: "organic", Instructions: "Compost if possible, otherwise green bin."},
		{Name: "Battery", Category: "hazardous", Instructions: "DO NOT throw in regular trash. Take to special collection center."},
	}
	for i := range items {
		// Upsert keeps instructions current across re-runs; the name is
		// the natural key.
		if err := repo.Upsert(ctx, &items[i]); err != nil {
			return err
		}
	}
	return nil
}
