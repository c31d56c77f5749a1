package domain

import "time"

// InvProduct is the relational row backing one product record. The full
// field map is serialized into Attrs; item and the timestamps are lifted
// into columns for keyed access and ordering.
type InvProduct struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Item      string    `gorm:"uniqueIndex;size:64" json:"item" form:"item"`
	Attrs     string    `gorm:"type:text" json:"attrs" form:"attrs"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (InvProduct) TableName() string {
	return "inv_product"
}

// InvSchemaField is one dynamically discovered schema column.
type InvSchemaField struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id,string"`
	Name      string    `gorm:"uniqueIndex;size:64" json:"name" form:"name"`
	Kind      string    `gorm:"size:16" json:"kind" form:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (InvSchemaField) TableName() string {
	return "inv_schema_field"
}

// InvOpsLog records one mutation for the audit trail.
type InvOpsLog struct {
	ID      int64     `json:"id,string"`
	Action  string    `gorm:"index;size:32" json:"action"`
	Desc    string    `gorm:"size:1024" json:"desc"`
	OptTime time.Time `json:"opt_time"`
}

// TableName Specify table name
func (InvOpsLog) TableName() string {
	return "inv_ops_log"
}
