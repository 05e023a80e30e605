package models

import (
	"github.com/marketplace/backend/internal/domain/directory"
)

// UserModel is the persistence model for the User aggregate
type UserModel struct {
	BaseModel
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone        string `gorm:"type:varchar(50)"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *directory.User {
	return &directory.User{
		BaseAggregateRoot: m.aggregateBase(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
		PasswordHash:      m.PasswordHash,
	}
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *directory.User) {
	m.FromDomainBaseEntity(u.BaseEntity)
	m.Name = u.Name
	m.Email = u.Email
	m.Phone = u.Phone
	m.PasswordHash = u.PasswordHash
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(u *directory.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
