// Command create-admin provisions (or resets) an admin account in the
// configured datastore.
package main

import (
	"context"
	"flag"
	"fmt"
	"handmade-store/config"
	"handmade-store/utils"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	algo := flag.String("algo", utils.AlgoBcrypt, "password hash algorithm: bcrypt or argon2")
	flag.Parse()

	cfg := config.LoadConfig()
	config.SetupLogger(cfg)

	if err := run(cfg, strings.TrimSpace(*username), *password, *algo); err != nil {
		log.WithError(err).Fatal("create-admin failed")
	}
}

func run(cfg *config.Config, username, password, algo string) error {
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := utils.HashPasswordWith(algo, password)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if store.Driver == config.DriverMemory {
		log.Warn("DATABASE_URL points at the in-memory store, the admin will not persist")
	}

	admin, err := store.Admins.Upsert(ctx, username, hash)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"id": admin.ID, "username": admin.Username, "algo": algo}).Info("admin provisioned")
	return nil
}
