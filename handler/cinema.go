package handler

import (
	"errors"
	"log"
	"movie_marathon/cache"
	"movie_marathon/config"
	"movie_marathon/constants"
	"movie_marathon/model"
	"movie_marathon/service"
	"movie_marathon/utils"

	"github.com/gofiber/fiber/v2"
)

// GetCinemasByZip serves GET /api/cinemas. The response cache sits in
// front of the service; a fresh ingest invalidates the other cinema
// cache variants before storing its own entry.
func GetCinemasByZip(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_QUERY).(model.CinemasQuery)
	ctx := c.UserContext()

	key := cache.BuildKey(constants.NS_CINEMAS, c.Path(), map[string]string{"zip": input.Zip})
	var cached model.CinemasResponse
	if ResponseCache.Get(ctx, key, &cached) {
		return c.JSON(cached)
	}

	result, err := Cinemas.GetByZip(ctx, input.Zip)
	if err != nil {
		var se *service.StatusError
		if errors.As(err, &se) {
			return utils.ErrorResponse(c, se.Status, constants.CAN_NOT_GET_CINEMAS, err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_GET_CINEMAS, err)
	}

	resp := model.CinemasResponse{OK: true, Zip: input.Zip, Cinemas: result.Cinemas, Note: result.Note}
	if resp.Cinemas == nil {
		resp.Cinemas = model.Cinemas{}
	}

	if result.Note == "" {
		// Fresh or DB-sufficient data: drop stale variants, then cache.
		if err := ResponseCache.InvalidateByPattern(ctx, constants.NS_CINEMAS+":*"); err != nil {
			log.Printf("[cinema.handler] invalidate failed: %v", err)
		}
	}
	if err := ResponseCache.Set(ctx, key, resp, config.CacheTTLSeconds()); err != nil {
		log.Printf("[cinema.handler] cache set failed: %v", err)
	}
	return c.JSON(resp)
}
