package validate

import (
	"fmt"
	"movie_marathon/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// UUIDParam checks that the named path parameter parses as a uuid and
// stores the parsed value in locals under the same name.
func UUIDParam(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params(name))
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid %s", name), err)
		}
		c.Locals(name, id)
		return c.Next()
	}
}
