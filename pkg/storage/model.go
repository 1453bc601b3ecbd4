package storage

import "time"

// layoutVersion is the newest table layout this build understands. It is
// recorded in the root table on first use; Open refuses layouts newer
// than this.
const layoutVersion = 1

// Root table property names.
const (
	versionProp  = "metastore.layout.version"
	instanceProp = "metastore.instance.id"
)

// rootProperty is one row of the root registry table: metastore-level
// key/value metadata (layout version, instance id).
type rootProperty struct {
	PropName string `gorm:"column:propname;primaryKey;size:128"`
	PropVal  string `gorm:"column:propval;size:256;not null"`
}

func (rootProperty) TableName() string { return "metastore_root" }

// jobRow is one row of the job registry table. Seq provides creation
// order for List; Name carries the uniqueness guarantee.
type jobRow struct {
	Seq       uint64    `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"uniqueIndex;size:255;not null"`
	UUID      string    `gorm:"size:36;not null"`
	Tool      string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (jobRow) TableName() string { return "metastore_jobs" }

// jobProperty is one row of the detail table: a scalar option or a single
// list element. ID preserves write order so decoded option order matches
// the original record.
type jobProperty struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	JobName string `gorm:"column:job_name;index;size:255;not null"`
	Name    string `gorm:"column:propname;size:255;not null"`
	Kind    string `gorm:"column:propkind;size:16;not null"`
	Value   string `gorm:"column:propval;type:text"`
	Pos     *int   `gorm:"column:pos"`
}

func (jobProperty) TableName() string { return "metastore_job_props" }
