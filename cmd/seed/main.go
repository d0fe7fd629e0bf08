// Command seed loads demo shops, menus, orders and expenses into the configured store.
// Set SEED_FILE to load a YAML file other than the embedded one.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"quisine/config"
	"quisine/repository"
	"quisine/services"
	"quisine/storage"
	"quisine/utils"
)

func main() {
	settings := config.Load()
	utils.InitLogger(settings.Production, settings.LogLevel)

	data := defaultSeed
	if path := os.Getenv("SEED_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("cannot read seed file")
		}
		data = b
	}
	f, err := parseSeed(data)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid seed file")
	}

	if settings.StoreDriver == "memory" {
		log.Fatal().Msg("seeding the in-memory store has no effect, set STORE_DRIVER=mongo")
	}
	db, err := config.ConnectDatabase(settings.MongoURI, settings.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer db.Disconnect()
	store := repository.NewMongoStore(db)

	images, err := storage.NewDiskStore(settings.UploadDir, settings.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload directory")
	}
	tokens := utils.NewTokenManager(settings.JWTSecret, settings.JWTTTL)

	s := &seeder{
		store: store,
		shops: services.NewShopService(store, images, tokens, nil),
		menus: services.NewMenuService(store.Menus, images),
		stats: services.NewStatsService(store.Orders, store.Expenses, settings.ShopTimezone),
		now:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	created, err := s.apply(ctx, f)
	if err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}
	log.Info().Int("created", created).Int("total", len(f.Shops)).Msg("seed complete")
}
