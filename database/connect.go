package database

import (
	"fmt"
	"log"
	"movie_marathon/config"
	"movie_marathon/model"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	p := config.Config("DB_PORT")
	port, err := strconv.ParseUint(p, 10, 32)
	if err != nil {
		port = 5432
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		config.Config("DB_HOST"), port, config.Config("DB_USER"),
		config.Config("DB_PASSWORD"), config.Config("DB_NAME"))
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}

	// Load is low; keep the pool small and let callers queue on it.
	sqlDB, err := DB.DB()
	if err != nil {
		panic("failed to access connection pool")
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Println("Connection Opened to Database")
	DB.AutoMigrate(
		&model.Cinema{},
		&model.ShowDate{},
		&model.Film{},
		&model.Showing{},
		&model.Landmark{},
		&model.PosterImage{},
	)
	log.Println("Database Migrated")
}
