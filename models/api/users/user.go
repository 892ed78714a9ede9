package usersapimodels

import (
	"docflow-backend/models"
	dbmodels "docflow-backend/models/db"
	"net/mail"
	"time"

	"github.com/pkg/errors"
)

type UserData struct {
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	Email        string          `json:"email"`
	DepartmentID string          `json:"department_id"`
	Role         models.UserRole `json:"role"`
	IsActive     bool            `json:"is_active"`
}

func (c UserData) Validate() error {
	if c.FirstName == "" || c.LastName == "" {
		return errors.New("не указано имя сотрудника")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return errors.New("некорректный адрес почты")
	}
	if c.Role != "" && c.Role != models.AdminRole && c.Role != models.EmployeeRole {
		return errors.Errorf("неизвестная роль: %v", c.Role)
	}
	return nil
}

type UserView struct {
	UserData
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
	FullName       string `json:"full_name"`
}

func UserConvert(rec dbmodels.User) UserView {
	departmentID := ""
	if rec.DepartmentID != nil {
		departmentID = *rec.DepartmentID
	}
	return UserView{
		UserData: UserData{
			FirstName:    rec.FirstName,
			LastName:     rec.LastName,
			Email:        rec.Email,
			DepartmentID: departmentID,
			Role:         rec.Role,
			IsActive:     rec.IsActive,
		},
		ID:             rec.ID,
		OrganizationID: rec.OrganizationID,
		FullName:       rec.GetFullName(),
	}
}

// SubstitutionData назначение заместителя по почте
type SubstitutionData struct {
	Email string `json:"email"`
}

func (c SubstitutionData) Validate() error {
	if c.Email == "" {
		return errors.New("не указана почта заместителя")
	}
	return nil
}

type SubstitutionView struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SubstituteID string    `json:"substitute_id"`
	AssignedAt   time.Time `json:"assigned_at"`
}

func SubstitutionConvert(rec dbmodels.Substitution) SubstitutionView {
	return SubstitutionView{
		ID:           rec.ID,
		UserID:       rec.UserID,
		SubstituteID: rec.SubstituteID,
		AssignedAt:   rec.AssignedAt,
	}
}
