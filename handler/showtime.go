package handler

import (
	"log"
	"movie_marathon/cache"
	"movie_marathon/config"
	"movie_marathon/constants"
	"movie_marathon/model"
	"movie_marathon/service"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetCinemaShowTimes serves GET /api/cinemaShowTimes. Internal and
// upstream failures never surface as 5xx here; the frontend always
// gets a renderable films list.
func GetCinemaShowTimes(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_QUERY).(model.ShowtimesQuery)
	ctx := c.UserContext()

	key := cache.BuildKey(constants.NS_SHOWTIMES, c.Path(), map[string]string{
		"cinema_id":    strconv.Itoa(input.CinemaID),
		"date":         input.Date,
		"show_date_id": input.ShowDateID,
	})
	var cached model.ShowtimesResult
	if ResponseCache.Get(ctx, key, &cached) {
		return c.JSON(cached)
	}

	date, _ := time.Parse("2006-01-02", input.Date)
	q := service.ShowtimeQuery{CinemaExternalID: input.CinemaID, Date: date}
	if input.ShowDateID != "" {
		id, err := uuid.Parse(input.ShowDateID)
		if err == nil {
			q.ShowDateID = &id
		}
	}

	result, err := Showtimes.IngestForCinema(ctx, q)
	if err != nil {
		log.Printf("[showtime.handler] ingest failed, serving empty: %v", err)
		return c.JSON(model.ShowtimesResult{
			OK:               false,
			CinemaExternalID: input.CinemaID,
			Date:             input.Date,
			Films:            []model.FilmShowtimes{},
			Note:             "showtimes temporarily unavailable",
		})
	}
	if result.Films == nil {
		result.Films = []model.FilmShowtimes{}
	}

	if err := ResponseCache.Set(ctx, key, result, config.CacheTTLSeconds()); err != nil {
		log.Printf("[showtime.handler] cache set failed: %v", err)
	}
	return c.JSON(result)
}
