package handler

import (
	"movie_marathon/cache"
	"movie_marathon/service"
)

// Package-level services wired once at startup.
var (
	ResponseCache *cache.Cache
	Cinemas       *service.CinemaService
	Showtimes     *service.ShowtimeService
	Landmarks     *service.LandmarkService
	Posters       *service.PosterService
)

func Init(c *cache.Cache, cinemas *service.CinemaService, showtimes *service.ShowtimeService, landmarks *service.LandmarkService, posters *service.PosterService) {
	ResponseCache = c
	Cinemas = cinemas
	Showtimes = showtimes
	Landmarks = landmarks
	Posters = posters
}
