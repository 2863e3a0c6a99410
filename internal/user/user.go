package user

import "time"

// User is an account provisioned from a Google sign-in. There is no local
// password; identity is whatever Google asserts for the e-mail.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Name      string    `json:"name"`
	GoogleID  string    `json:"-" gorm:"column:google_id;uniqueIndex"`
	AvatarURL string    `json:"avatar_url,omitempty" gorm:"column:avatar_url"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

type RepositoryAPI interface {
	GetByID(id int64) (*User, error)
	GetByEmail(email string) (*User, error)
	Save(u *User) error
}
