package handler

import (
	"errors"
	"fmt"
	"log"
	"movie_marathon/cache"
	"movie_marathon/config"
	"movie_marathon/constants"
	"movie_marathon/model"
	"movie_marathon/provider"
	"movie_marathon/service"
	"movie_marathon/utils"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func landmarkError(c *fiber.Ctx, err error) error {
	var pe *provider.Error
	if errors.As(err, &pe) {
		return utils.ErrorResponse(c, fiber.StatusBadGateway, constants.ERROR_UPSTREAM, err)
	}
	var se *service.StatusError
	if errors.As(err, &se) {
		return utils.ErrorResponse(c, se.Status, constants.CAN_NOT_GET_LANDMARKS, err)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.CAN_NOT_GET_LANDMARKS, err)
}

// GetLandmarks serves GET /api/landmarks (explicit bounding box).
func GetLandmarks(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_QUERY).(model.LandmarksQuery)
	ctx := c.UserContext()

	key := cache.BuildKey(constants.NS_LANDMARKS, c.Path(), map[string]string{
		"west":  fmt.Sprintf("%.6f", *input.West),
		"south": fmt.Sprintf("%.6f", *input.South),
		"east":  fmt.Sprintf("%.6f", *input.East),
		"north": fmt.Sprintf("%.6f", *input.North),
		"limit": strconv.Itoa(input.Limit),
	})
	var cached provider.FeatureCollection
	if ResponseCache.Get(ctx, key, &cached) {
		return c.JSON(cached)
	}

	box := model.BBox{West: *input.West, South: *input.South, East: *input.East, North: *input.North}
	fc, err := Landmarks.GetByBBox(ctx, box, input.Limit)
	if err != nil {
		return landmarkError(c, err)
	}

	if err := ResponseCache.Set(ctx, key, fc, config.CacheTTLSeconds()); err != nil {
		log.Printf("[landmark.handler] cache set failed: %v", err)
	}
	return c.JSON(fc)
}

// GetLandmarksByZip serves GET /api/landmarks/by-zip. An unresolvable
// ZIP yields an empty FeatureCollection rather than an error.
func GetLandmarksByZip(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_QUERY).(model.LandmarksByZipQuery)
	ctx := c.UserContext()

	key := cache.BuildKey(constants.NS_LANDMARKS, c.Path(), map[string]string{
		"zip":      input.Zip,
		"radiusMi": fmt.Sprintf("%.2f", input.RadiusMi),
		"limit":    strconv.Itoa(input.Limit),
	})
	var cached provider.FeatureCollection
	if ResponseCache.Get(ctx, key, &cached) {
		return c.JSON(cached)
	}

	fc, err := Landmarks.GetByZip(ctx, input.Zip, input.RadiusMi, input.Limit)
	if err != nil {
		return landmarkError(c, err)
	}

	if err := ResponseCache.Set(ctx, key, fc, config.CacheTTLSeconds()); err != nil {
		log.Printf("[landmark.handler] cache set failed: %v", err)
	}
	return c.JSON(fc)
}
