package models

type AttributeType string

const (
	AttributeTypeString  AttributeType = "STRING"
	AttributeTypeNumber  AttributeType = "NUMBER"
	AttributeTypeDate    AttributeType = "DATE"
	AttributeTypeBoolean AttributeType = "BOOLEAN"
)

func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeString, AttributeTypeNumber, AttributeTypeDate, AttributeTypeBoolean:
		return true
	}
	return false
}
