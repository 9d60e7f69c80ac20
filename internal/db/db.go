package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the database drivers and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oficinapro/workshop/internal/models"
)

// dialectorFor picks the driver from the DSN shape: URL style means
// postgres, anything else is treated as a sqlite file path.
func dialectorFor(dsn string) gorm.Dialector {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return postgres.Open(dsn)
	}
	return sqlite.Open(dsn)
}

func isPostgres(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// ConnectAndMigrate opens the store and brings the schema up to date.
// With MIGRATIONS=1 the SQL files in ./migrations run via golang-migrate;
// otherwise AutoMigrate creates missing tables/columns (idempotent, the
// default for the single-file sqlite deployment).
func ConnectAndMigrate(dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("DATABASE_DSN is empty, check the environment configuration")
	}
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		conn, err = gorm.Open(dialectorFor(dsn), cfg)
		if err == nil {
			break
		}
		fmt.Println("Retrying DB connection...", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		modelsToMigrate := []interface{}{
			&models.Client{}, &models.InventoryItem{}, &models.ServiceOrder{}, &models.ServiceOrderItem{},
		}
		for _, m := range modelsToMigrate {
			if migErr := conn.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"clients", "inventory_items", "service_orders", "service_order_items"} {
		if !conn.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}

	if v := strings.ToLower(os.Getenv("DB_SEED")); v == "1" || v == "true" || v == "yes" {
		seed(conn)
	}
	return conn, nil
}

// seed inserts a handful of demo rows for local development. Inserts
// are keyed by name so re-running stays harmless.
func seed(conn *gorm.DB) {
	baseItems := []models.InventoryItem{
		{Name: "Filtro de óleo", Category: "Motor", CostPrice: 15, SellPrice: 35, Quantity: 20, MinQuantity: 5},
		{Name: "Pastilha de freio", Category: "Freio", CostPrice: 60, SellPrice: 120, Quantity: 8, MinQuantity: 4, Location: "B2"},
		{Name: "Vela de ignição", Category: "Motor", CostPrice: 12, SellPrice: 28, Quantity: 30, MinQuantity: 10, Location: "A1"},
	}
	for _, it := range baseItems {
		var existing models.InventoryItem
		if err := conn.Where("name = ?", it.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			conn.Create(&it)
		}
	}
	var existing models.Client
	if err := conn.Where("name = ?", "Cliente Demo").First(&existing).Error; err == gorm.ErrRecordNotFound {
		conn.Create(&models.Client{Name: "Cliente Demo", Phone: "11 99999 0000", CarModel: "Fiat Uno", CarPlate: "ABC1D23"})
	}
}

// runSQLMigrations executes migrations in ./migrations using the
// golang-migrate file source.
func runSQLMigrations(dsn string) error {
	target := dsn
	if !isPostgres(dsn) {
		target = "sqlite3://" + dsn
	}
	m, err := migrate.New("file://migrations", target)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
