package dictapimodels

import (
	dbmodels "docflow-backend/models/db"

	"github.com/pkg/errors"
)

type DepartmentData struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
}

type DepartmentView struct {
	DepartmentData
	ID             string `json:"id"`
	OrganizationID string `json:"organization_id"`
}

func (c DepartmentData) Validate() error {
	if c.Name == "" {
		return errors.New("не указано название подразделения")
	}
	return nil
}

func DepartmentConvert(rec dbmodels.Department) DepartmentView {
	parentID := ""
	if rec.ParentID != nil {
		parentID = *rec.ParentID
	}
	return DepartmentView{
		DepartmentData: DepartmentData{
			Name:     rec.Name,
			ParentID: parentID,
		},
		ID:             rec.ID,
		OrganizationID: rec.OrganizationID,
	}
}

type DepartmentTreeItem struct {
	DepartmentView
	SubUnits []DepartmentTreeItem `json:"sub_units"`
}
