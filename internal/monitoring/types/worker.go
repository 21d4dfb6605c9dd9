package types

// Worker is a monitoring agent. A worker with MonSelf set is also watched:
// it owns the Target referenced by MonTarget.
type Worker struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	IP        string `gorm:"type:varchar(32)" json:"ip"`
	Host      string `gorm:"type:text" json:"host"`
	Location  string `gorm:"type:text" json:"location"`
	MonSelf   bool   `json:"mon_self"`
	MonTarget *uint  `gorm:"index" json:"mon_target"`

	// Only used to build the self-monitoring target; not persisted.
	MonURL string `gorm:"-" json:"-"`
	BwURL  string `gorm:"-" json:"-"`
}

func (Worker) TableName() string {
	return "mon_workers"
}
