package main

import (
	"log"
	"movie_marathon/cache"
	"movie_marathon/config"
	"movie_marathon/database"
	"movie_marathon/handler"
	"movie_marathon/helper"
	"movie_marathon/provider"
	"movie_marathon/repo"
	"movie_marathon/router"
	"movie_marathon/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       600,
	}))

	database.ConnectDB()
	database.ConnectRedis()

	cinemaRepo := repo.NewCinemaRepo(database.DB)
	showtimeRepo := repo.NewShowtimeRepo(database.DB)
	landmarkRepo := repo.NewLandmarkRepo(database.DB)
	posterRepo := repo.NewPosterRepo(database.DB)

	movieglu := provider.NewMovieGlu()
	zipgeo := provider.NewZipGeo()
	nrhp := provider.NewNRHP()

	threshold := config.DBHitThreshold()
	cinemas := service.NewCinemaService(cinemaRepo, zipgeo, movieglu, config.AllowExternal(), threshold)
	showtimes := service.NewShowtimeService(showtimeRepo, cinemaRepo, movieglu)
	landmarks := service.NewLandmarkService(landmarkRepo, nrhp, zipgeo, threshold)
	posters := service.NewPosterService(posterRepo, movieglu)

	responseCache := cache.New(cache.NewRedisStore(database.Redis), &cache.Counters{})
	handler.Init(responseCache, cinemas, showtimes, landmarks, posters)

	helper.StartCacheSweepScheduler()
	defer helper.StopCacheSweepScheduler()

	router.SetupRoutes(app)
	log.Fatal(app.Listen(":" + config.Port()))
}
