package helper

import (
	"context"
	"log"
	"movie_marathon/cache"
	"movie_marathon/constants"
	"movie_marathon/database"
	"movie_marathon/repo"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var sweepScheduler gocron.Scheduler

// SweepResponseCache drops all cached response blobs and logs how many
// cinemas have not been refreshed by any ingestion in the last week.
// The next query for those ZIPs goes back to the provider.
func SweepResponseCache() {
	log.Println("[CRON] SweepResponseCache triggered")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := cache.New(cache.NewRedisStore(database.Redis), cache.NopRecorder{})
	for _, ns := range []string{constants.NS_CINEMAS, constants.NS_SHOWTIMES, constants.NS_LANDMARKS} {
		if err := c.InvalidateByPattern(ctx, ns+":*"); err != nil {
			log.Printf("[CRON] sweep of %s failed: %v", ns, err)
		}
	}

	cinemas := repo.NewCinemaRepo(database.DB)
	stale, err := cinemas.CountStale(ctx, time.Now().AddDate(0, 0, -7))
	if err != nil {
		log.Printf("[CRON] stale cinema count failed: %v", err)
		return
	}
	log.Printf("[CRON] %d cinemas unseen for over 7 days", stale)
}

func StartCacheSweepScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	sweepScheduler = s

	_, err = s.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(
				gocron.NewAtTime(4, 15, 0),
			),
		),
		gocron.NewTask(SweepResponseCache),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Cache sweep scheduler started (04:15)")
}

func StopCacheSweepScheduler() {
	if sweepScheduler != nil {
		_ = sweepScheduler.Shutdown()
	}
}
