package models

// Role is an administrator's permission level
type Role string

const (
	RoleSuperAdmin     Role = "SUPER_ADMIN"
	RoleOperationAdmin Role = "OPERATION_ADMIN"
	RoleCSAdmin        Role = "CS_ADMIN"
)

// Roles lists every valid role
var Roles = []Role{RoleSuperAdmin, RoleOperationAdmin, RoleCSAdmin}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// UserStatus is the lifecycle state of an administrator account
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusInactive  UserStatus = "INACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
	UserStatusPending   UserStatus = "PENDING"
	UserStatusRejected  UserStatus = "REJECTED"
)

// Valid reports whether s is a known status
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusInactive, UserStatusSuspended, UserStatusPending, UserStatusRejected:
		return true
	}
	return false
}

// Editable reports whether s can be set through a direct status edit
func (s UserStatus) Editable() bool {
	return s == UserStatusActive || s == UserStatusInactive || s == UserStatusSuspended
}

// User is an administrator of the back office
type User struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Password        string     `json:"-"`
	Phone           string     `json:"phone"`
	Role            Role       `json:"role"`
	Status          UserStatus `json:"status"`
	CreatedAt       string     `json:"createdAt"`
	ApprovedAt      string     `json:"approvedAt,omitempty"`
	RejectedAt      string     `json:"rejectedAt,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	RequestMessage  string     `json:"requestMessage,omitempty"`
}

// Field exposes the user's attributes to the query package
func (u User) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return u.ID, true
	case "name":
		return u.Name, true
	case "email":
		return u.Email, true
	case "phone":
		return u.Phone, true
	case "role":
		return string(u.Role), true
	case "status":
		return string(u.Status), true
	case "createdAt":
		return u.CreatedAt, true
	case "approvedAt":
		return u.ApprovedAt, true
	case "rejectedAt":
		return u.RejectedAt, true
	}
	return nil, false
}
