package dbmodels

import (
	"docflow-backend/models"
	"fmt"
)

type User struct {
	BaseModel
	FirstName      string          `gorm:"type:varchar(150)"`
	LastName       string          `gorm:"type:varchar(150)"`
	Email          string          `gorm:"type:varchar(255);uniqueIndex"`
	IsActive       bool
	OrganizationID string          `gorm:"type:varchar(36);index"`
	DepartmentID   *string         `gorm:"type:varchar(36);index"`
	Role           models.UserRole `gorm:"type:varchar(50)"`
}

func (r User) GetFullName() string {
	return fmt.Sprintf("%s %s", r.FirstName, r.LastName)
}

// IsActiveEmployee сотрудник работает и закреплен за подразделением
func (r User) IsActiveEmployee() bool {
	return r.IsActive && r.DepartmentID != nil && *r.DepartmentID != ""
}

// IsColleague оба сотрудника активны и работают в одном подразделении
func (r User) IsColleague(other User) bool {
	if !r.IsActiveEmployee() || !other.IsActiveEmployee() {
		return false
	}
	return *r.DepartmentID == *other.DepartmentID
}
