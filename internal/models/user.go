package models

// User is an account holder. Transactions are owned by exactly one user.
type User struct {
	Base
	Name         string        `gorm:"not null" json:"name"`
	Email        string        `gorm:"uniqueIndex;not null" json:"email"`
	Password     string        `gorm:"not null" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
