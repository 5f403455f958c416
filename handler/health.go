package handler

import (
	"movie_marathon/database"

	"github.com/gofiber/fiber/v2"
)

// Healthcheck reports DB and cache reachability. Degraded components
// flip their flag but the endpoint itself stays 200 so probes can read
// the detail.
func Healthcheck(c *fiber.Ctx) error {
	ctx := c.UserContext()

	dbOK := false
	if sqlDB, err := database.DB.DB(); err == nil {
		dbOK = sqlDB.PingContext(ctx) == nil
	}
	redisOK := database.RedisHealthcheck(ctx)

	return c.JSON(fiber.Map{
		"ok":    dbOK && redisOK,
		"db":    dbOK,
		"redis": redisOK,
	})
}
