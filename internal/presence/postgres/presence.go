package postgres

import (
	"time"

	presenceDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/presence"
	"github.com/smdiallo/presence-management/internal/presence"
	"gorm.io/gorm"
)

type PresenceRepository struct {
	db *gorm.DB
}

func NewPresenceRepository(db *gorm.DB) presence.Repository {
	return &PresenceRepository{db: db}
}

func (r *PresenceRepository) Create(p *presenceDatamodel.Presence) error {
	return r.db.Create(p).Error
}

func (r *PresenceRepository) FindInWindow(matricule string, start, end time.Time) (*presenceDatamodel.Presence, error) {
	var p presenceDatamodel.Presence
	err := r.db.Where("matricule = ? AND heure_entree >= ? AND heure_entree < ?", matricule, start, end).
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// FindOpen picks the open row with the latest entry.
func (r *PresenceRepository) FindOpen(matricule string) (*presenceDatamodel.Presence, error) {
	var p presenceDatamodel.Presence
	err := r.db.Where("matricule = ? AND heure_sortie IS NULL", matricule).
		Order("heure_entree DESC").
		First(&p).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PresenceRepository) Update(p *presenceDatamodel.Presence) error {
	return r.db.Save(p).Error
}

func (r *PresenceRepository) FindBetween(start, end time.Time) ([]*presenceDatamodel.Presence, error) {
	var presences []*presenceDatamodel.Presence
	err := r.db.Where("heure_entree >= ? AND heure_entree < ?", start, end).
		Order("heure_entree DESC").
		Find(&presences).Error
	return presences, err
}

func (r *PresenceRepository) FindSince(since time.Time) ([]*presenceDatamodel.Presence, error) {
	var presences []*presenceDatamodel.Presence
	err := r.db.Where("heure_entree >= ?", since).
		Order("heure_entree DESC").
		Find(&presences).Error
	return presences, err
}
