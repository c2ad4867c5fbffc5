package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/pkg/apperror"
)

// Role is a closed enumeration with an explicit privilege ordering.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// Level returns the privilege rank: user < moderator < admin.
func (r Role) Level() int {
	switch r {
	case RoleUser:
		return 0
	case RoleModerator:
		return 1
	case RoleAdmin:
		return 2
	}
	return -1
}

// IsEmployee reports whether the role is exempt from rate limiting.
func (r Role) IsEmployee() bool {
	return r == RoleModerator || r == RoleAdmin
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  *string   `gorm:"size:150;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Bio       string    `gorm:"type:text" json:"bio"`
	Role      Role      `gorm:"size:9;not null;default:user;check:only_admin_must_be_staff,(role = 'admin' AND is_staff) OR (role IN ('user','moderator') AND NOT is_staff)" json:"role"`
	IsStaff   bool      `gorm:"not null;default:false" json:"-"`

	// IsSuperuser is only ever set by superuser provisioning, never by
	// self-service paths.
	IsSuperuser  bool      `gorm:"not null;default:false" json:"-"`
	PasswordHash *string   `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SetRole assigns the role together with its derived staff flag. Write
// paths must go through here so the pair never diverges.
func (u *User) SetRole(role Role) {
	u.Role = role
	u.IsStaff = role == RoleAdmin
}

func (u *User) HasUsername() bool {
	return u.Username != nil && *u.Username != ""
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeSave rejects writes that would break the role/staff invariant.
// The database check constraint backs this up; the hook exists so a
// buggy write path fails before touching the store at all.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.IsStaff != (u.Role == RoleAdmin) {
		return apperror.ErrRoleStaffInconsistency
	}
	return nil
}
