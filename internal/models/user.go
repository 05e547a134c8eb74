package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleViewer Role = "viewer"
)

type User struct {
	gorm.Model
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Role     Role   `gorm:"not null" json:"role"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Phone    string `json:"phone"`
	SlackID  string `json:"slack_id"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	// Per-channel opt-outs applied by the notification dispatcher.
	NotifyEmail bool `gorm:"default:true" json:"notify_email"`
	NotifySMS   bool `gorm:"default:true" json:"notify_sms"`
	NotifyPush  bool `gorm:"default:true" json:"notify_push"`
}

// ChannelPreferences returns the dispatcher's view of the user's opt-outs.
func (u *User) ChannelPreferences() map[string]bool {
	return map[string]bool{
		"email": u.NotifyEmail,
		"sms":   u.NotifySMS,
		"push":  u.NotifyPush,
	}
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

func (u *User) HasPermission(action string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleUser:
		return action != "manage_users" && action != "system_config"
	case RoleViewer:
		return action == "view_farms" || action == "view_alerts"
	default:
		return false
	}
}
