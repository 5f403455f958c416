package validate

import (
	"movie_marathon/constants"
	"movie_marathon/model"
	"movie_marathon/utils"

	"github.com/gofiber/fiber/v2"
)

func ShowtimesQuery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ShowtimesQuery
		if err := c.QueryParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		c.Locals(constants.LOCALS_QUERY, input)
		return c.Next()
	}
}
