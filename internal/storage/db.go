package storage

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Transaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

func (d *Database) SaveTransaction(tx *Transaction) error {
	if err := d.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// GetCategorySummary returns the total amount spent per category.
func (d *Database) GetCategorySummary() (map[string]float64, error) {
	var rows []struct {
		Category string
		Total    float64
	}
	err := d.db.Model(&Transaction{}).
		Select("category, SUM(amount) as total").
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize categories: %w", err)
	}

	summary := make(map[string]float64, len(rows))
	for _, r := range rows {
		summary[r.Category] = r.Total
	}
	return summary, nil
}

// GetTypeSummary returns the total amount per transaction type.
func (d *Database) GetTypeSummary() (map[string]float64, error) {
	var rows []struct {
		Type  string
		Total float64
	}
	err := d.db.Model(&Transaction{}).
		Select("type, SUM(amount) as total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize types: %w", err)
	}

	summary := make(map[string]float64, len(rows))
	for _, r := range rows {
		summary[r.Type] = r.Total
	}
	return summary, nil
}

// GetTransactionsByCategory returns a category's transactions, newest first.
func (d *Database) GetTransactionsByCategory(category string) ([]Transaction, error) {
	var txs []Transaction
	err := d.db.Where("category = ?", category).
		Order("date_time desc").
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return txs, nil
}
