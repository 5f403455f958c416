package handler

import (
	"errors"
	"movie_marathon/constants"
	"movie_marathon/model"
	"movie_marathon/service"
	"movie_marathon/utils"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func posterError(c *fiber.Ctx, message string, err error) error {
	var se *service.StatusError
	if errors.As(err, &se) {
		return utils.ErrorResponse(c, se.Status, message, err)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
}

// GetMoviePosters dispatches on the query shape: ?filmId= lists one
// film's images, ?ids= maps cross-provider ids to data URIs, ?limit=
// returns the newest uploads.
func GetMoviePosters(c *fiber.Ctx) error {
	ctx := c.UserContext()

	if raw := c.Query("filmId"); raw != "" {
		filmID, err := uuid.Parse(raw)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		images, err := Posters.ListByFilmID(ctx, filmID)
		if err != nil {
			return posterError(c, constants.CAN_NOT_GET_POSTERS, err)
		}
		return c.JSON(fiber.Map{"ok": true, "film_id": filmID, "images": images})
	}

	if raw := c.Query("ids"); raw != "" {
		ids := []string{}
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT,
				errors.New("ids must contain at least one id"))
		}
		refs, byID, err := Posters.MapByImdbTitleIDs(ctx, ids)
		if err != nil {
			return posterError(c, constants.CAN_NOT_GET_POSTERS, err)
		}
		return c.JSON(fiber.Map{"ok": true, "posters": refs, "posters_by_id": byID})
	}

	limit := 5
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT,
				errors.New("limit must be a positive integer"))
		}
		limit = n
	}
	images, err := Posters.Latest(ctx, limit)
	if err != nil {
		return posterError(c, constants.CAN_NOT_GET_POSTERS, err)
	}
	return c.JSON(fiber.Map{"ok": true, "images": images})
}

// FetchMoviePosters serves POST /api/moviePosters/fetch.
func FetchMoviePosters(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_BODY).(model.PosterIngestInput)
	ctx := c.UserContext()

	filmID, err := uuid.Parse(input.FilmID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
	}

	result, err := Posters.IngestForFilm(ctx, filmID, input.MovieGluFilmID,
		input.AltText, input.SizeCategory, input.Orientation, input.Prefer)
	if err != nil {
		return posterError(c, constants.CAN_NOT_INGEST_POSTERS, err)
	}

	status := fiber.StatusCreated
	if result.Cached {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(fiber.Map{
		"ok":      true,
		"cached":  result.Cached,
		"film_id": result.FilmID,
		"images":  result.Images,
	})
}

// DeleteMoviePoster serves DELETE /api/moviePosters/:id.
func DeleteMoviePoster(c *fiber.Ctx) error {
	id := c.Locals("id").(uuid.UUID)
	if err := Posters.Delete(c.UserContext(), id); err != nil {
		return posterError(c, constants.CAN_NOT_GET_POSTERS, err)
	}
	return c.JSON(fiber.Map{"ok": true, "deleted": id})
}
