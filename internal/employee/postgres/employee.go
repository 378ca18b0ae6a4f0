package postgres

import (
	employeeDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/employee"
	presenceDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/presence"
	"github.com/smdiallo/presence-management/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.Repository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetAll() ([]*employeeDatamodel.Employee, error) {
	var employees []*employeeDatamodel.Employee
	err := r.db.Order("matricule ASC").Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) GetByMatricule(matricule string) (*employeeDatamodel.Employee, error) {
	var emp employeeDatamodel.Employee
	err := r.db.Where("matricule = ?", matricule).First(&emp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &emp, nil
}

func (r *EmployeeRepository) Create(emp *employeeDatamodel.Employee) error {
	return r.db.Create(emp).Error
}

// Update overwrites all fields of the row identified by currentMatricule.
// A changed matricule rekeys the employee, so presence rows are re-pointed
// in the same transaction.
func (r *EmployeeRepository) Update(currentMatricule string, emp *employeeDatamodel.Employee) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&employeeDatamodel.Employee{}).
			Where("matricule = ?", currentMatricule).
			Updates(map[string]interface{}{
				"matricule": emp.Matricule,
				"nom":       emp.LastName,
				"prenom":    emp.FirstName,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if emp.Matricule != currentMatricule {
			if err := tx.Model(&presenceDatamodel.Presence{}).
				Where("matricule = ?", currentMatricule).
				Update("matricule", emp.Matricule).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *EmployeeRepository) Delete(matricule string) error {
	return r.db.Where("matricule = ?", matricule).
		Delete(&employeeDatamodel.Employee{}).Error
}

func (r *EmployeeRepository) HasPresences(matricule string) (bool, error) {
	var count int64
	err := r.db.Model(&presenceDatamodel.Presence{}).
		Where("matricule = ?", matricule).
		Count(&count).Error
	return count > 0, err
}
