package seed

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"studio-service/internal/apperr"
	"studio-service/internal/model"
)

// Pricing maps trainer level to a price per purchased session count.
type Pricing map[string]map[string]int64

// ClassTypeDefault is one seeded class format with its deterministic id.
type ClassTypeDefault struct {
	ID      string
	Name    string
	Pricing Pricing
}

// Defaults returns the fixed set of class types written once at
// provisioning time. The ids are stable so re-provisioning logic and
// downstream features can refer to them directly; the price tables are
// static configuration, mutable by ordinary studio operations afterwards.
func Defaults() []ClassTypeDefault {
	return []ClassTypeDefault{
		{
			ID:   "private",
			Name: "Private",
			Pricing: Pricing{
				"senior": {"1": 900, "5": 4250, "10": 8000},
				"master": {"1": 1100, "5": 5250, "10": 10000},
			},
		},
		{
			ID:   "duet",
			Name: "Duet",
			Pricing: Pricing{
				"senior": {"1": 600, "5": 2800, "10": 5200},
				"master": {"1": 750, "5": 3500, "10": 6500},
			},
		},
		{
			ID:   "group",
			Name: "Group",
			Pricing: Pricing{
				"senior": {"1": 400, "5": 1850, "10": 3400},
				"master": {"1": 500, "5": 2350, "10": 4400},
			},
		},
	}
}

// Seeder writes the initial studio partition.
type Seeder struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewSeeder(db *gorm.DB, log *zap.Logger) *Seeder {
	return &Seeder{db: db, log: log}
}

// Seed writes the studio root row and every default class type in one
// transaction. The write is all-or-nothing: a failure on any record rolls
// back the whole partition so a root row never exists without its seeds.
func (s *Seeder) Seed(studio *model.Studio) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(studio).Error; err != nil {
			return err
		}
		for _, def := range Defaults() {
			pricing, err := json.Marshal(def.Pricing)
			if err != nil {
				return err
			}
			record := model.ClassType{
				StudioID: studio.ID,
				ID:       def.ID,
				Name:     def.Name,
				Pricing:  string(pricing),
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperr.Internal("failed to seed studio partition", err)
	}

	s.log.Info("Studio partition seeded",
		zap.String("studio_id", studio.ID),
		zap.Int("class_types", len(Defaults())))
	return nil
}
