// Command makeadmin grants the admin flag to an existing account or lists
// the current administrators.
//
//	makeadmin -email owner@example.com
//	makeadmin -list
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jenfranx30/savemate-backend/internal/app"
	"github.com/jenfranx30/savemate-backend/internal/config"
	"github.com/jenfranx30/savemate-backend/internal/event"
	"github.com/jenfranx30/savemate-backend/pkg/logger"
)

func main() {
	email := flag.String("email", "", "email of the account to promote")
	list := flag.Bool("list", false, "list current administrators")
	flag.Parse()

	if *email == "" && !*list {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New("savemate-makeadmin", cfg.LogLevel)

	if err := run(cfg, log, *email, *list); err != nil {
		log.Error("makeadmin failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, email string, list bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := app.OpenDatabase(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc, err := app.NewServices(cfg, pool, nil, event.NewProducer(nil, log), log)
	if err != nil {
		return err
	}

	if email != "" {
		u, err := svc.Users.GrantAdmin(ctx, email)
		if err != nil {
			return fmt.Errorf("grant admin to %s: %w", email, err)
		}
		fmt.Printf("%s (%s) is now an administrator\n", u.Email, u.Username)
	}

	if list {
		admins, err := svc.Users.ListAdmins(ctx)
		if err != nil {
			return fmt.Errorf("list admins: %w", err)
		}
		if len(admins) == 0 {
			fmt.Println("no administrators")
			return nil
		}
		for _, u := range admins {
			fmt.Printf("%s\t%s\t%s\tcreated %s\n", u.ID, u.Email, u.Username, u.CreatedAt.Format(time.DateOnly))
		}
	}
	return nil
}
