package dashboard

import (
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/smdiallo/presence-management/internal"
	"github.com/smdiallo/presence-management/internal/presence"
)

// Stats carries the dashboard counters.
type Stats struct {
	TotalEmployees int64
	PresencesToday int64
}

// Service answers the dashboard counters with plain SQL; the counts do
// not need the ORM layer.
type Service struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewService(db *sqlx.DB, logger *slog.Logger) *Service {
	return &Service{db: db, logger: logger}
}

func (s *Service) Stats() (*Stats, error) {
	var stats Stats

	if err := s.db.Get(&stats.TotalEmployees, "SELECT COUNT(*) FROM employes"); err != nil {
		s.logger.Error("failed to count employees", "error", err)
		return nil, internal.NewInternalError("failed to count employees", err)
	}

	dayStart, dayEnd := presence.DayWindow(time.Now())
	query := s.db.Rebind("SELECT COUNT(*) FROM presences WHERE heure_entree >= ? AND heure_entree < ?")
	if err := s.db.Get(&stats.PresencesToday, query, dayStart, dayEnd); err != nil {
		s.logger.Error("failed to count today's presences", "error", err)
		return nil, internal.NewInternalError("failed to count today's presences", err)
	}

	return &stats, nil
}
