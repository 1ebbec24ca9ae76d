package migrations

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// Migration is one applied-migrations ledger row. The batch number groups
// every migration applied by a single Migrate call, so Rollback can unwind
// whole batches in reverse.
type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"unique;not null"`
	Batch     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type MigrationFunc func(*gorm.DB) error

// MigrationDefinition pairs a named Up step with its Down counterpart. A nil
// Down makes the migration irreversible.
type MigrationDefinition struct {
	Name string
	Up   MigrationFunc
	Down MigrationFunc
}

// Migrator applies the registered scoring and panel migration sets in order,
// one transaction per migration.
type Migrator struct {
	db   *gorm.DB
	defs []MigrationDefinition
}

func NewMigrator(db *gorm.DB) *Migrator {
	db.AutoMigrate(&Migration{})
	return &Migrator{db: db}
}

func (m *Migrator) AddMigration(def MigrationDefinition) {
	m.defs = append(m.defs, def)
}

// Migrate applies every registered migration that has not run yet. Each Up
// step and its ledger row commit together; a failing step leaves the ledger
// untouched.
func (m *Migrator) Migrate() error {
	batch := m.latestBatch() + 1
	applied := 0

	for _, def := range m.defs {
		if m.hasRun(def.Name) {
			continue
		}

		log.Printf("Applying migration %s", def.Name)

		err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := def.Up(tx); err != nil {
				return err
			}
			return tx.Create(&Migration{Name: def.Name, Batch: batch}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s: %w", def.Name, err)
		}
		applied++
	}

	if applied == 0 {
		log.Println("No pending migrations")
	} else {
		log.Printf("Applied %d migration(s) in batch %d", applied, batch)
	}
	return nil
}

// Rollback unwinds the given number of batches, newest first. Every
// migration in a batch must define a Down step.
func (m *Migrator) Rollback(steps int) error {
	if steps <= 0 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		batch := m.latestBatch()
		if batch == 0 {
			log.Println("Nothing left to roll back")
			return nil
		}

		var records []Migration
		if err := m.db.Where("batch = ?", batch).Order("id DESC").Find(&records).Error; err != nil {
			return err
		}

		for _, record := range records {
			def := m.definition(record.Name)
			if def == nil {
				return fmt.Errorf("no definition registered for applied migration %s", record.Name)
			}
			if def.Down == nil {
				return fmt.Errorf("migration %s is irreversible", record.Name)
			}

			log.Printf("Rolling back migration %s", record.Name)

			err := m.db.Transaction(func(tx *gorm.DB) error {
				if err := def.Down(tx); err != nil {
					return err
				}
				return tx.Delete(&record).Error
			})
			if err != nil {
				return fmt.Errorf("rollback of %s: %w", record.Name, err)
			}
		}

		log.Printf("Rolled back batch %d (%d migration(s))", batch, len(records))
	}
	return nil
}

// Status returns the applied-migrations ledger in application order.
func (m *Migrator) Status() ([]Migration, error) {
	var records []Migration
	err := m.db.Order("batch ASC, id ASC").Find(&records).Error
	return records, err
}

func (m *Migrator) hasRun(name string) bool {
	var count int64
	m.db.Model(&Migration{}).Where("name = ?", name).Count(&count)
	return count > 0
}

func (m *Migrator) latestBatch() int {
	var record Migration
	m.db.Order("batch DESC").First(&record)
	return record.Batch
}

func (m *Migrator) definition(name string) *MigrationDefinition {
	for i := range m.defs {
		if m.defs[i].Name == name {
			return &m.defs[i]
		}
	}
	return nil
}
