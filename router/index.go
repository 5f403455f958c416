package router

import (
	"movie_marathon/handler"
	"movie_marathon/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api", logger.New())

	api.Get("/health", handler.Healthcheck)

	api.Get("/cinemas", validate.CinemasQuery(), handler.GetCinemasByZip)
	api.Get("/cinemaShowTimes", validate.ShowtimesQuery(), handler.GetCinemaShowTimes)

	landmarks := api.Group("/landmarks")
	landmarks.Get("/", validate.LandmarksQuery(), handler.GetLandmarks)
	landmarks.Get("/by-zip", validate.LandmarksByZipQuery(), handler.GetLandmarksByZip)

	posters := api.Group("/moviePosters")
	posters.Get("/", handler.GetMoviePosters)
	posters.Post("/fetch", validate.PosterIngest(), handler.FetchMoviePosters)
	posters.Delete("/:id", validate.UUIDParam("id"), handler.DeleteMoviePoster)
}
