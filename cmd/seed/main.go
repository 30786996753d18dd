// Seeds a handful of demo users and cheese listings through the service
// layer, so the same registration and owner-assignment pipeline runs as for
// API writes.
package main

import (
	"context"
	"errors"
	"os"

	"cheesemarket/internal/config"
	"cheesemarket/internal/db"
	"cheesemarket/internal/logger"
	"cheesemarket/internal/model"
	"cheesemarket/internal/repository"
	"cheesemarket/internal/security"
	"cheesemarket/internal/serializer"
	"cheesemarket/internal/service"
	"cheesemarket/internal/validation"

	"gorm.io/gorm"
)

type seedListing struct {
	title       string
	description string
	price       int
	published   bool
}

type seedUser struct {
	email    string
	username string
	password string
	admin    bool
	listings []seedListing
}

var seedUsers = []seedUser{
	{
		email:    "admin@cheesemarket.example",
		username: "admin",
		password: "admin",
		admin:    true,
	},
	{
		email:    "brie.larson@cheesemarket.example",
		username: "cheeselover",
		password: "cheese",
		listings: []seedListing{
			{"Aged Comté", "Nutty, crystalline, 24 months in the cave.", 4500, true},
			{"Mystery wheel", "Found it at the back of the fridge.\nSmells promising.", 500, false},
		},
	},
	{
		email:    "curd.cobain@cheesemarket.example",
		username: "curdnerd",
		password: "cheese",
		listings: []seedListing{
			{"Fresh chèvre", "Soft and lemony, made this morning.", 1200, true},
		},
	},
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := gormDB.AutoMigrate(&model.User{}, &model.CheeseListing{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	userRepo := repository.NewUserRepository(gormDB)
	cheeseRepo := repository.NewCheeseListingRepository(gormDB)
	userService := service.NewUserService(userRepo)
	cheeseService := service.NewCheeseListingService(cheeseRepo)

	created, skipped := 0, 0
	for _, su := range seedUsers {
		su := su
		in := &serializer.UserInput{
			Email:    &su.email,
			Username: &su.username,
			Password: &su.password,
		}

		user, err := userService.Create(ctx, in, nil)
		var violations validation.Violations
		if errors.As(err, &violations) {
			// Already seeded; look the user up for the listings below.
			existing, ferr := userRepo.FindByEmail(ctx, su.email)
			if ferr != nil {
				log.Fatal().Err(ferr).Str("email", su.email).Msg("load existing user")
			}
			user = existing
			skipped++
		} else if err != nil {
			log.Fatal().Err(err).Str("email", su.email).Msg("seed user")
		} else {
			created++
		}

		if su.admin && !user.Roles.Has(model.RoleAdmin) {
			user.Roles = append(user.Roles, model.RoleAdmin)
			if err := userRepo.Update(ctx, user); err != nil {
				log.Fatal().Err(err).Msg("grant admin role")
			}
		}

		principal := security.NewPrincipal(user)
		for _, sl := range su.listings {
			if hasListing(ctx, gormDB, user.ID, sl.title) {
				continue
			}
			sl := sl
			listingIn := &serializer.CheeseListingInput{
				Title:       &sl.title,
				Description: &sl.description,
				Price:       &sl.price,
				IsPublished: &sl.published,
			}
			if _, err := cheeseService.Create(ctx, listingIn, principal); err != nil {
				log.Fatal().Err(err).Str("title", sl.title).Msg("seed listing")
			}
		}
	}

	log.Info().Int("created", created).Int("skipped", skipped).Msg("seed completed")
}

func hasListing(ctx context.Context, gormDB *gorm.DB, ownerID uint, title string) bool {
	var count int64
	gormDB.WithContext(ctx).Model(&model.CheeseListing{}).
		Where("owner_id = ? AND title = ?", ownerID, title).
		Count(&count)
	return count > 0
}
