package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"atrium-chat/config"
	"atrium-chat/internal/domain/message"
	"atrium-chat/internal/domain/notification"
	"atrium-chat/internal/domain/room"
	"atrium-chat/internal/domain/thread"
	"atrium-chat/pkg/database"
)

const usage = `
Atrium Chat - Database CLI Tool

Usage:
  migrate [command]

Commands:
  up          Run GORM migrations for all chat tables
  status      Show database connection and table status

Examples:
  go run cmd/migrate/main.go up
  go run cmd/migrate/main.go status
`

func main() {
	flag.Usage = func() {
		fmt.Print(usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	command := flag.Arg(0)

	cfg := config.LoadConfig()
	database.Connect(cfg)

	switch command {
	case "up":
		runMigrationsUp()
	case "status":
		showStatus()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}

func runMigrationsUp() {
	log.Println("Running migrations...")

	if err := database.DB.AutoMigrate(
		&room.Room{},
		&room.Membership{},
		&message.Message{},
		&message.Attachment{},
		&message.Mention{},
		&thread.Thread{},
		&notification.Notification{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Migrations completed successfully")
}

func showStatus() {
	log.Println("Checking database status...")

	if err := database.HealthCheck(); err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Database connection: OK")

	tables := []string{"rooms", "memberships", "messages", "attachments", "mentions", "threads", "notifications"}
	for _, table := range tables {
		if database.DB.Migrator().HasTable(table) {
			var count int64
			database.DB.Table(table).Count(&count)
			log.Printf("Table %-15s exists (%d rows)", table, count)
		} else {
			log.Printf("Table %-15s does not exist", table)
		}
	}
}
