package models

// User represents the user model in the database
type User struct {
	Base
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Username   string     `gorm:"uniqueIndex;not null" json:"username"`
	Name       string     `gorm:"size:40;not null" json:"name"`
	Password   string     `gorm:"not null" json:"-"`
	Settings   *Settings  `gorm:"foreignKey:UserID" json:"settings,omitempty"`
	Categories []Category `gorm:"foreignKey:UserID" json:"categories,omitempty"`
}
