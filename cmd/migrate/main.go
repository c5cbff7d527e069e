package main

import (
	"flag"
	"log"
	"log/slog"

	"github.com/atuta-hr/attendance-payroll-go/internal/config"
	"github.com/atuta-hr/attendance-payroll-go/internal/pkg/database"
	"github.com/atuta-hr/attendance-payroll-go/migrations"
)

func main() {
	steps := flag.Int("steps", 0, "apply n migrations (negative rolls back); used with the steps command")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "up"
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	m, err := database.NewMigrator(migrations.FS, cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error creating migrator: ", err)
	}
	defer m.Close()

	switch cmd {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		if *steps == 0 {
			log.Fatal("steps requires -steps=n")
		}
		err = m.Steps(*steps)
	case "version":
		var v uint
		var dirty bool
		v, dirty, err = m.Version()
		if err == nil {
			slog.Info("current schema version", "version", v, "dirty", dirty)
		}
	default:
		log.Fatalf("unknown command %q (want up, down, steps or version)", cmd)
	}
	if err != nil {
		log.Fatal("Migration failed: ", err)
	}
}
