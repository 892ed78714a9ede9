package dbmodels

import (
	"github.com/pkg/errors"
)

type Department struct {
	BaseModel
	OrganizationID string  `gorm:"type:varchar(36);index:idx_organization"`
	ParentID       *string `gorm:"type:varchar(36)"`
	Name           string  `gorm:"type:varchar(255)"`
}

func (d *Department) Validate() error {
	if d.OrganizationID == "" {
		return errors.New("отсутствует ссылка на организацию")
	}
	if d.Name == "" {
		return errors.New("не указано название подразделения")
	}
	return nil
}
