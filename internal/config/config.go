package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/farmcentral/farm_supply/internal/models"
)

type Config struct {
	DB_HOST         string
	DB_PORT         string
	DB_USER         string
	DB_PASSWORD     string
	DB_NAME         string
	ES_URL          string
	ES_USER         string
	ES_PASSWORD     string
	KAFKA_ADDRESS   string
	SESSION_SECRET  string
	PROVIDER_SECRET string
	ORG_DOMAIN      string
	LOG_LEVEL       string
	HTTP_ADDR       string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		DB_HOST:         os.Getenv("DB_HOST"),
		DB_PORT:         os.Getenv("DB_PORT"),
		DB_USER:         os.Getenv("DB_USER"),
		DB_PASSWORD:     os.Getenv("DB_PASSWORD"),
		DB_NAME:         os.Getenv("DB_NAME"),
		ES_URL:          os.Getenv("ES_URL"),
		ES_USER:         os.Getenv("ES_USER"),
		ES_PASSWORD:     os.Getenv("ES_PASSWORD"),
		KAFKA_ADDRESS:   os.Getenv("KAFKA_ADDRESS"),
		SESSION_SECRET:  os.Getenv("SESSION_SECRET"),
		PROVIDER_SECRET: os.Getenv("PROVIDER_SECRET"),
		ORG_DOMAIN:      os.Getenv("ORG_DOMAIN"),
		LOG_LEVEL:       os.Getenv("LOG_LEVEL"),
		HTTP_ADDR:       os.Getenv("HTTP_ADDR"),
	}

	if config.ORG_DOMAIN == "" {
		config.ORG_DOMAIN = "farmcentral.com"
	}
	if config.HTTP_ADDR == "" {
		config.HTTP_ADDR = ":8080"
	}

	if err := config.Require(); err != nil {
		return nil, err
	}

	return config, nil
}

// Require fails fast on the variables the app cannot run without.
func (c *Config) Require() error {
	required := map[string]string{
		"DB_HOST":         c.DB_HOST,
		"DB_PORT":         c.DB_PORT,
		"DB_USER":         c.DB_USER,
		"DB_NAME":         c.DB_NAME,
		"SESSION_SECRET":  c.SESSION_SECRET,
		"PROVIDER_SECRET": c.PROVIDER_SECRET,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("config: %s is required", name)
		}
	}
	return nil
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB_HOST, cfg.DB_PORT, cfg.DB_USER, cfg.DB_PASSWORD, cfg.DB_NAME,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.UserRole{},
		&models.Employee{},
		&models.Farmer{},
		&models.Product{},
		&models.ProductType{},
		&models.ProviderAccount{},
	); err != nil {
		return fmt.Errorf("migrate tables: %w", err)
	}

	return SeedRoles(db)
}

// SeedRoles inserts the static role reference rows when missing.
func SeedRoles(db *gorm.DB) error {
	roles := []models.UserRole{
		{ID: int(models.RoleEmployee), Role: "Employee"},
		{ID: int(models.RoleFarmer), Role: "Farmer"},
	}
	for _, role := range roles {
		var existing models.UserRole
		if err := db.Where("id = ?", role.ID).First(&existing).Error; err == nil {
			continue
		}
		if err := db.Create(&role).Error; err != nil {
			return fmt.Errorf("seed role %q: %w", role.Role, err)
		}
	}
	return nil
}
