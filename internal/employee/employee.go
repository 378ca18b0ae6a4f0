package employee

import (
	employeeDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/employee"
)

type Employee struct {
	Matricule string
	LastName  string
	FirstName string
}

// FullName is the "nom prenom" form used in status messages.
func (e *Employee) FullName() string {
	return e.LastName + " " + e.FirstName
}

func ToDataModel(e *Employee) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		Matricule: e.Matricule,
		LastName:  e.LastName,
		FirstName: e.FirstName,
	}
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		Matricule: e.Matricule,
		LastName:  e.LastName,
		FirstName: e.FirstName,
	}
}

func FromDataModelSlice(employees []*employeeDatamodel.Employee) []*Employee {
	result := make([]*Employee, len(employees))
	for i, e := range employees {
		result[i] = FromDataModel(e)
	}
	return result
}
