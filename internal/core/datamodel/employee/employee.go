package employee

// Employee is keyed by the matricule, an externally assigned identifier.
type Employee struct {
	Matricule string `gorm:"column:matricule;primaryKey"`
	LastName  string `gorm:"column:nom;not null"`
	FirstName string `gorm:"column:prenom;not null"`
}

func (Employee) TableName() string {
	return "employes"
}
