package employee

import (
	"strings"

	"github.com/smdiallo/presence-management/internal"
)

// EmployeeFormDTO carries the add/edit form. Fields are trimmed before
// validation.
type EmployeeFormDTO struct {
	Matricule string
	LastName  string
	FirstName string
}

func (d *EmployeeFormDTO) Trim() {
	d.Matricule = strings.TrimSpace(d.Matricule)
	d.LastName = strings.TrimSpace(d.LastName)
	d.FirstName = strings.TrimSpace(d.FirstName)
}

// Validate requires all three fields after trimming.
func (d EmployeeFormDTO) Validate() error {
	if d.Matricule == "" || d.LastName == "" || d.FirstName == "" {
		return internal.NewValidationError("Tous les champs sont requis.", internal.ErrCodeValidationFailed)
	}
	return nil
}
