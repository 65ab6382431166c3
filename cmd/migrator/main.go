package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Domenick1991/anticafe/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	switch args[0] {
	case "up":
		if err := goose.Up(db, "migrations"); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
		fmt.Println("migrations applied")
	case "down":
		if err := goose.Down(db, "migrations"); err != nil {
			log.Fatalf("roll back migration: %v", err)
		}
		fmt.Println("migration rolled back")
	case "status":
		if err := goose.Status(db, "migrations"); err != nil {
			log.Fatalf("migration status: %v", err)
		}
	default:
		flag.Usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrator [up|down|status]")
}
