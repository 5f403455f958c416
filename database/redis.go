package database

import (
	"context"
	"log"
	"movie_marathon/config"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

func ConnectRedis() {
	opt, err := redis.ParseURL(config.RedisURL())
	if err != nil {
		panic("invalid REDIS_URL: " + err.Error())
	}
	opt.MaxRetries = 3
	Redis = redis.NewClient(opt)
	log.Println("Redis client connected:", config.RedisURL())
}

func RedisHealthcheck(ctx context.Context) bool {
	if Redis == nil {
		return false
	}
	pong, err := Redis.Ping(ctx).Result()
	return err == nil && pong == "PONG"
}
