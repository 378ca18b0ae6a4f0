package presence

import (
	"log/slog"
	"strings"
	"time"

	"github.com/smdiallo/presence-management/internal"
	presenceDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/presence"
	"github.com/smdiallo/presence-management/internal/employee"
)

// HistoryDays bounds the historical view to the trailing year.
const HistoryDays = 365

type Repository interface {
	Create(p *presenceDatamodel.Presence) error
	// FindInWindow returns any row, open or closed, whose entry falls in
	// [start, end), or nil when none exists.
	FindInWindow(matricule string, start, end time.Time) (*presenceDatamodel.Presence, error)
	// FindOpen returns the open row with the latest entry, or nil.
	FindOpen(matricule string) (*presenceDatamodel.Presence, error)
	Update(p *presenceDatamodel.Presence) error
	// FindBetween returns rows with entry in [start, end), newest first.
	FindBetween(start, end time.Time) ([]*presenceDatamodel.Presence, error)
	// FindSince returns rows with entry >= since, newest first.
	FindSince(since time.Time) ([]*presenceDatamodel.Presence, error)
}

// EmployeeDirectory is the slice of the employee service the ledger needs.
type EmployeeDirectory interface {
	Get(matricule string) (*employee.Employee, error)
	List() ([]*employee.Employee, error)
}

type Service struct {
	repo      Repository
	directory EmployeeDirectory
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo Repository, directory EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
		now:       time.Now,
	}
}

// SetClock overrides the time source used to stamp entries and exits
// and to bound the daily and historical windows.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// ClockIn opens a presence interval for the employee. The policy is one
// entry per employee per calendar day, regardless of whether the prior
// entry was closed. The entry timestamp is the server clock; it is never
// client-supplied.
func (s *Service) ClockIn(matricule string) (*Presence, error) {
	emp, err := s.directory.Get(matricule)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	now := s.now()
	dayStart, dayEnd := DayWindow(now)

	existing, err := s.repo.FindInWindow(matricule, dayStart, dayEnd)
	if err != nil {
		s.logger.Error("failed to check daily entry", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to check daily entry", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateEntry
	}

	row := &presenceDatamodel.Presence{
		Matricule: matricule,
		EntryTime: now,
	}
	if err := s.repo.Create(row); err != nil {
		// A racing request may slip between the check and the insert;
		// the unique index on (matricule, day) turns that into a
		// constraint violation.
		if isDuplicateKey(err) {
			return nil, internal.ErrDuplicateEntry
		}
		s.logger.Error("failed to record entry", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to record entry", err)
	}

	s.logger.Info("entry recorded", "matricule", matricule, "entry_time", row.EntryTime)
	return FromDataModel(row), nil
}

// ClockOut closes the most recently opened interval for the employee.
func (s *Service) ClockOut(matricule string) (*Presence, error) {
	emp, err := s.directory.Get(matricule)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	open, err := s.repo.FindOpen(matricule)
	if err != nil {
		s.logger.Error("failed to find open entry", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to find open entry", err)
	}
	if open == nil {
		return nil, internal.ErrNoOpenEntry
	}

	now := s.now()
	open.ExitTime = &now
	if err := s.repo.Update(open); err != nil {
		s.logger.Error("failed to record exit", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to record exit", err)
	}

	s.logger.Info("exit recorded", "matricule", matricule, "exit_time", now)
	return FromDataModel(open), nil
}

// Today lists all presence rows whose entry falls on the current
// calendar day, most recent first.
func (s *Service) Today() ([]*Presence, error) {
	dayStart, dayEnd := DayWindow(s.now())
	rows, err := s.repo.FindBetween(dayStart, dayEnd)
	if err != nil {
		s.logger.Error("failed to list today's presences", "error", err)
		return nil, internal.NewInternalError("failed to list today's presences", err)
	}
	return FromDataModelSlice(rows), nil
}

// History lists the trailing-365-day presence rows, most recent first,
// with the total of worked hours over the window. Open rows contribute
// zero to the total.
func (s *Service) History() ([]*Presence, float64, error) {
	since := s.now().AddDate(0, 0, -HistoryDays)
	rows, err := s.repo.FindSince(since)
	if err != nil {
		s.logger.Error("failed to list presence history", "error", err)
		return nil, 0, internal.NewInternalError("failed to list presence history", err)
	}

	presences := FromDataModelSlice(rows)
	var total float64
	for _, p := range presences {
		if h := p.WorkedHours(); h != nil {
			total += *h
		}
	}
	return presences, total, nil
}

// StampRow pairs an employee with their presence for today, if any, for
// the stamping view.
type StampRow struct {
	Employee *employee.Employee
	Today    *Presence
}

// Board returns all employees with today's presence preloaded.
func (s *Service) Board() ([]StampRow, error) {
	employees, err := s.directory.List()
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := DayWindow(s.now())
	rows, err := s.repo.FindBetween(dayStart, dayEnd)
	if err != nil {
		s.logger.Error("failed to load today's presences", "error", err)
		return nil, internal.NewInternalError("failed to load today's presences", err)
	}

	byMatricule := make(map[string]*Presence, len(rows))
	for _, row := range rows {
		if _, seen := byMatricule[row.Matricule]; !seen {
			byMatricule[row.Matricule] = FromDataModel(row)
		}
	}

	board := make([]StampRow, len(employees))
	for i, emp := range employees {
		board[i] = StampRow{
			Employee: emp,
			Today:    byMatricule[emp.Matricule],
		}
	}
	return board, nil
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
