package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	MONGO_URI     string
	MONGO_DB      string
	JWT_SECRET    string
	KAFKA_ADDRESS string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	LISTEN_ADDR   string
	LOG_LEVEL     string
	ENVIRONMENT   string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		MONGO_URI:     os.Getenv("MONGO_URI"),
		MONGO_DB:      os.Getenv("MONGO_DB"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		LISTEN_ADDR:   os.Getenv("LISTEN_ADDR"),
		LOG_LEVEL:     os.Getenv("LOG_LEVEL"),
		ENVIRONMENT:   os.Getenv("ENVIRONMENT"),
	}

	if config.MONGO_URI == "" {
		config.MONGO_URI = "mongodb://localhost:27017"
	}
	if config.MONGO_DB == "" {
		config.MONGO_DB = "greenharvest"
	}
	if config.LISTEN_ADDR == "" {
		config.LISTEN_ADDR = ":8080"
	}

	return config, nil
}
