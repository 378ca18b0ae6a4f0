package employee

import (
	"log/slog"

	"github.com/smdiallo/presence-management/internal"
	employeeDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/employee"
)

type Repository interface {
	GetAll() ([]*employeeDatamodel.Employee, error)
	GetByMatricule(matricule string) (*employeeDatamodel.Employee, error)
	Create(employee *employeeDatamodel.Employee) error
	// Update rekeys presence rows along with the employee when the
	// matricule changes.
	Update(currentMatricule string, employee *employeeDatamodel.Employee) error
	Delete(matricule string) error
	HasPresences(matricule string) (bool, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns all employees ordered by matricule ascending.
func (s *Service) List() ([]*Employee, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return FromDataModelSlice(rows), nil
}

// Get returns the employee for a matricule, or nil when unknown.
func (s *Service) Get(matricule string) (*Employee, error) {
	row, err := s.repo.GetByMatricule(matricule)
	if err != nil {
		s.logger.Error("failed to get employee", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// Add creates a new employee after validating the form and checking the
// matricule is not already taken.
func (s *Service) Add(dto EmployeeFormDTO) (*Employee, error) {
	dto.Trim()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByMatricule(dto.Matricule)
	if err != nil {
		s.logger.Error("failed to check matricule", "matricule", dto.Matricule, "error", err)
		return nil, internal.NewInternalError("failed to check matricule", err)
	}
	if existing != nil {
		return nil, internal.ErrMatriculeExists
	}

	emp := &Employee{
		Matricule: dto.Matricule,
		LastName:  dto.LastName,
		FirstName: dto.FirstName,
	}
	if err := s.repo.Create(ToDataModel(emp)); err != nil {
		s.logger.Error("failed to create employee", "matricule", dto.Matricule, "error", err)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created", "matricule", emp.Matricule)
	return emp, nil
}

// Edit overwrites matricule, nom and prenom of an existing employee.
// Changing the matricule is a rekey: presence rows follow the new key.
func (s *Service) Edit(currentMatricule string, dto EmployeeFormDTO) (*Employee, error) {
	existing, err := s.repo.GetByMatricule(currentMatricule)
	if err != nil {
		s.logger.Error("failed to load employee", "matricule", currentMatricule, "error", err)
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	if existing == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	dto.Trim()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	emp := &Employee{
		Matricule: dto.Matricule,
		LastName:  dto.LastName,
		FirstName: dto.FirstName,
	}
	if err := s.repo.Update(currentMatricule, ToDataModel(emp)); err != nil {
		s.logger.Error("failed to update employee", "matricule", currentMatricule, "error", err)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "matricule", currentMatricule, "new_matricule", emp.Matricule)
	return emp, nil
}

// Delete removes an employee. Deletion is restricted while presence rows
// reference the matricule.
func (s *Service) Delete(matricule string) (*Employee, error) {
	existing, err := s.repo.GetByMatricule(matricule)
	if err != nil {
		s.logger.Error("failed to load employee", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to load employee", err)
	}
	if existing == nil {
		return nil, internal.ErrEmployeeNotFound
	}

	hasRows, err := s.repo.HasPresences(matricule)
	if err != nil {
		s.logger.Error("failed to check presences", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to check presences", err)
	}
	if hasRows {
		return nil, internal.ErrEmployeeHasPresences
	}

	if err := s.repo.Delete(matricule); err != nil {
		s.logger.Error("failed to delete employee", "matricule", matricule, "error", err)
		return nil, internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted", "matricule", matricule)
	return FromDataModel(existing), nil
}
