// Command server runs the word lookup JSON API.
//
// Flags:
//
//	-migrate       apply pending database migrations before serving
//	-migrate-only  apply migrations and exit
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/wordlookup/internal/app"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending migrations before serving")
	migrateOnly := flag.Bool("migrate-only", false, "apply pending migrations and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunServer(ctx, app.ServerOptions{Migrate: *migrate, MigrateOnly: *migrateOnly}); err != nil {
		log.Printf("server: %v", err)
		stop()
		os.Exit(1)
	}
}
