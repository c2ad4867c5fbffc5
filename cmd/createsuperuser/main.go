package main

import (
	"context"
	"flag"

	"github.com/sirupsen/logrus"

	"reviewhub/internal/entity"
	"reviewhub/internal/repository"
	"reviewhub/internal/service"
	"reviewhub/pkg/database"
)

// Provisions the first administrator account. Self-service signup only
// ever creates plain users; this is the way in.
func main() {
	email := flag.String("email", "", "superuser email")
	username := flag.String("username", "", "superuser username")
	password := flag.String("password", "", "superuser password")
	flag.Parse()

	if *email == "" {
		logrus.Fatal("-email is required")
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db := database.Connect()
	if err := db.AutoMigrate(&entity.User{}); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	users := service.NewUserService(repository.NewUserRepository(db))
	user, err := users.CreateSuperuser(context.Background(), *email, *username, *password)
	if err != nil {
		logrus.Fatalf("failed to create superuser: %v", err)
	}

	logrus.Infof("superuser %s created (%s)", *user.Username, user.Email)
}
