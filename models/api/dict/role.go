package dictapimodels

import "docflow-backend/models"

type RoleView struct {
	ID   models.UserRole `json:"id"`
	Name string          `json:"name"`
}

func GetRoles() []RoleView {
	return []RoleView{
		{ID: models.AdminRole, Name: models.AdminRole.ToHuman()},
		{ID: models.EmployeeRole, Name: models.EmployeeRole.ToHuman()},
	}
}

type PermissionView struct {
	ID   models.DocumentPermission `json:"id"`
	Name string                    `json:"name"`
}

// GetPermissions права, которые автор может выдать другим пользователям
func GetPermissions() []PermissionView {
	list := []models.DocumentPermission{
		models.ReadPermission,
		models.EditPermission,
		models.SendForSigningPermission,
	}
	result := make([]PermissionView, 0, len(list))
	for _, p := range list {
		result = append(result, PermissionView{ID: p, Name: p.ToHuman()})
	}
	return result
}
