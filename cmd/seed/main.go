package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-registration/config"
	appuser "github.com/oksasatya/go-user-registration/internal/application"
	"github.com/oksasatya/go-user-registration/internal/container"
	"github.com/oksasatya/go-user-registration/internal/domain/entity"
	"github.com/oksasatya/go-user-registration/pkg/helpers"
)

// Seeds a demo user through the same create path POST /register uses.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	app := container.New(context.Background(), cfg, logger)
	defer app.Close()

	svc := appuser.NewService(app.Users, helpers.BcryptHasher{Cost: helpers.PasswordCost}, logger, app.ES, cfg.ESUsersIndex, nil, cfg.AppName)

	in := entity.UserInput{
		Name:     getenv("SEED_NAME", "Demo User"),
		Email:    getenv("SEED_EMAIL", "demo@example.com"),
		Password: getenv("SEED_PASSWORD", "password123"),
	}
	u, err := svc.Create(context.Background(), in)
	switch {
	case errors.Is(err, entity.ErrDuplicateKey):
		fmt.Printf("user already seeded: email=%s\n", in.Email)
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s\n", u.ID, u.Email, u.Name)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
