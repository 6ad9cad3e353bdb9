package main

import (
	"fmt"
	"log"

	"smart-dpo/internal/alerting"
	"smart-dpo/internal/config"
	"smart-dpo/internal/database"
	"smart-dpo/internal/server"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	// hourly compliance sweep
	scanner := alerting.NewScanner(database.DB)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.AlertCron, func() {
		log.Println("running scheduled alert scan")
		scanner.CheckAlerts()
	}); err != nil {
		log.Fatalf("invalid alert cron spec %q: %v", cfg.AlertCron, err)
	}
	scheduler.Start()

	r := server.NewRouter(cfg)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
