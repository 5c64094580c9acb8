package database

import (
	"decor-wallet/internal/common/models"
	"decor-wallet/internal/pkg/logger"
	"fmt"
)

func (db *Database) RunMigrations() error {
	logger.Info.Println("Starting database migrations...")

	if db.Config.Driver == POSTGRES {
		if err := db.createExtensions(); err != nil {
			return fmt.Errorf("failed to create extensions: %w", err)
		}
	}

	// Define models in dependency order
	entities := []interface{}{
		&models.WalletTopup{},
	}

	for _, entity := range entities {
		logger.Info.Printf("Migrating model: %T", entity)
		if err := db.AutoMigrate(entity); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", entity, err)
		}
	}

	if db.Config.Driver == POSTGRES {
		if err := db.createIndexes(); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}

		if err := db.createTriggers(); err != nil {
			return fmt.Errorf("failed to create triggers: %w", err)
		}
	}

	logger.Info.Println("Database migrations completed successfully")
	return nil
}

func (db *Database) createExtensions() error {
	query := `CREATE EXTENSION IF NOT EXISTS "pgcrypto";`
	return db.Exec(query).Error
}

func (db *Database) createIndexes() error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_wallet_topups_customer_status ON wallet_topups(customer_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_wallet_topups_created_at ON wallet_topups(created_at);`,
	}

	for _, query := range indexes {
		if err := db.Exec(query).Error; err != nil {
			logger.Error.Printf("Error creating index: %s, Error: %v", query, err)
			return err
		}
	}

	return nil
}

func (db *Database) createTriggers() error {
	// Create the trigger function first
	triggerFunction := `
	CREATE OR REPLACE FUNCTION update_updated_at_column()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ language 'plpgsql';`

	if err := db.Exec(triggerFunction).Error; err != nil {
		return err
	}

	tables := []string{
		"wallet_topups",
	}

	for _, table := range tables {
		triggerQuery := fmt.Sprintf(`
		DROP TRIGGER IF EXISTS update_%s_updated_at ON %s;
		CREATE TRIGGER update_%s_updated_at
		BEFORE UPDATE ON %s
		FOR EACH ROW EXECUTE PROCEDURE update_updated_at_column();`,
			table, table, table, table)

		if err := db.Exec(triggerQuery).Error; err != nil {
			logger.Error.Printf("Error creating trigger for table %s: %v", table, err)
			return err
		}
	}

	return nil
}
