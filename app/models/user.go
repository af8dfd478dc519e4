package models

import "time"

// User is an account that can log in and owns books.
type User struct {
	ID        uint      `gorm:"column:user_id;primaryKey;autoIncrement" json:"user_id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt hash, never serialised
	IsAdmin   bool      `gorm:"not null;default:false" json:"-"`
	Books     []Book    `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// UserView is the public JSON shape of a user.
type UserView struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

func (u User) View() UserView {
	return UserView{UserID: u.ID, Email: u.Email}
}

func UserViews(users []User) []UserView {
	out := make([]UserView, len(users))
	for i, u := range users {
		out[i] = u.View()
	}
	return out
}
