package validate

import (
	"errors"
	"fmt"
	"movie_marathon/config"
	"movie_marathon/constants"
	"movie_marathon/model"
	"movie_marathon/utils"

	"github.com/gofiber/fiber/v2"
)

func LandmarksQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.LandmarksQuery
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		box := model.BBox{West: *input.West, South: *input.South, East: *input.East, North: *input.North}
		if box.West >= box.East || box.South >= box.North {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT,
				errors.New("bounding box must satisfy west < east and south < north"))
		}
		maxSpan := config.MaxBBoxSpanDegrees()
		if box.SpanLon() > maxSpan || box.SpanLat() > maxSpan {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT,
				fmt.Errorf("bounding box span exceeds %.0f degrees", maxSpan))
		}
		c.Locals(constants.LOCALS_QUERY, input)
		return c.Next()
	}
}

func LandmarksByZipQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.LandmarksByZipQuery
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if max := config.MaxZipRadiusMiles(); input.RadiusMi > max {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT,
				fmt.Errorf("radiusMi must not exceed %.0f", max))
		}
		c.Locals(constants.LOCALS_QUERY, input)
		return c.Next()
	}
}
