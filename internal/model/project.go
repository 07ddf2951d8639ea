package model

import (
	"strings"
	"time"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "ACTIVE"
	ProjectCompleted ProjectStatus = "COMPLETED"
	ProjectArchived  ProjectStatus = "ARCHIVED"
	ProjectCancelled ProjectStatus = "CANCELLED"
)

type Project struct {
	ID          int           `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Type        string        `json:"type"`
	Status      ProjectStatus `json:"status"`
	Deadline    *time.Time    `json:"deadline,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	CreatedBy   int           `json:"createdBy"`
	Lead        *User         `json:"lead,omitempty"`
	Members     []User        `json:"members,omitempty"`
}

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User is the public part of an account; the API never sends passwords here.
type User struct {
	ID            int       `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name,omitempty"`
	Role          UserRole  `json:"role,omitempty"`
	IsActive      bool      `json:"isActive"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func ParseRole(s string) (UserRole, bool) {
	r := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	return r, r == RoleUser || r == RoleAdmin
}

// UserUpdate is a partial profile update; nil fields are left untouched.
type UserUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// NewMember is the add-member payload. An empty Role lets the server pick.
type NewMember struct {
	UserID int    `json:"userId"`
	Role   string `json:"role,omitempty"`
}

func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
