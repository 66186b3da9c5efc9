package entity

import (
	"optimeet/core/entity"
)

// User is a registered account. Passwords are stored bcrypt-hashed only.
type User struct {
	Email        string `db:"email" json:"email"`
	Name         string `db:"name" json:"name"`
	PasswordHash string `db:"password_hash" json:"-"`
	entity.BaseEntity
}
