// Command db_init creates the database, applies migrations and seeds a small
// demo marketplace: one hirer, one worker and an open job.
package main

import (
	"context"
	"flag"
	"log"

	migrations "github.com/garnizeh/dayhire/db"
	"github.com/garnizeh/dayhire/internal/db"
	"github.com/garnizeh/dayhire/internal/repository/docstore"
	"github.com/garnizeh/dayhire/internal/schema"
	sqlitestore "github.com/garnizeh/dayhire/internal/store/sqlite"
	"github.com/garnizeh/dayhire/pkg/models"
)

func main() {
	var dbPath = flag.String("db", "dayhire.db", "Path to the sqlite database file")
	var seed = flag.Bool("seed", true, "Seed demo data")
	flag.Parse()

	ctx := context.Background()

	conn, err := db.New(ctx, *dbPath, nil)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn, migrations.Migrations); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Printf("migrations applied to %s", *dbPath)

	if !*seed {
		return
	}

	registry, err := schema.NewRegistry()
	if err != nil {
		log.Fatalf("load schemas: %v", err)
	}
	repos := docstore.New(sqlitestore.New(conn, nil), registry, nil)

	hirer := models.User{Name: "Demo Hirer", Role: models.RoleHire, Location: "Riverside Market"}
	if err := repos.User.Create(ctx, "demo-hirer", &hirer); err != nil {
		log.Fatalf("seed hirer: %v", err)
	}

	worker := models.User{Name: "Demo Worker", Role: models.RoleWorker, Skills: []string{"loading", "painting"}}
	if err := repos.User.Create(ctx, "demo-worker", &worker); err != nil {
		log.Fatalf("seed worker: %v", err)
	}

	job := models.Job{
		Title:     "Unload delivery truck",
		Category:  "loading",
		Wage:      800,
		Location:  "Riverside Market",
		IsUrgent:  true,
		HirerID:   "demo-hirer",
		HirerName: hirer.Name,
	}
	jobID, err := repos.Job.Create(ctx, &job)
	if err != nil {
		log.Fatalf("seed job: %v", err)
	}

	log.Printf("seeded demo data (job %s)", jobID)
}
