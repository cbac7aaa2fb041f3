package models

import (
	"strings"
	"time"
)

type Role int

const (
	RoleEmployee Role = 1
	RoleFarmer   Role = 2
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleFarmer
}

func (r Role) String() string {
	switch r {
	case RoleEmployee:
		return "Employee"
	case RoleFarmer:
		return "Farmer"
	default:
		return "Unknown"
	}
}

type UserRole struct {
	ID   int    `gorm:"primaryKey"        json:"id"`
	Role string `gorm:"not null;size:50"  json:"role"`
}

type Employee struct {
	ID     string `gorm:"index;not null"      json:"id"`
	Name   string `gorm:"not null;size:255"   json:"name"`
	Email  string `gorm:"primaryKey;size:50"  json:"email"`
	RoleID int    `gorm:"not null"            json:"role_id"`
}

type Farmer struct {
	ID       string    `gorm:"index;not null"      json:"id"`
	Name     string    `gorm:"not null;size:255"   json:"name"`
	Address  string    `gorm:"size:100"            json:"address"`
	Phone    string    `gorm:"size:20"             json:"phone"`
	Email    string    `gorm:"primaryKey;size:50"  json:"email"`
	RoleID   int       `gorm:"not null"            json:"role_id"`
	Products []Product `gorm:"foreignKey:Email;references:Email" json:"products,omitempty"`
}

type Product struct {
	ID           int       `gorm:"primaryKey"             json:"id"`
	ProductName  string    `gorm:"not null;size:50"       json:"product_name"`
	Quantity     float64   `gorm:"not null"               json:"quantity"`
	Price        float64   `gorm:"not null"               json:"price"`
	DateSupplied time.Time `gorm:"type:date;not null"     json:"date_supplied"`
	TypeID       int       `gorm:"index;not null"         json:"type_id"`
	Email        string    `gorm:"index;not null;size:50" json:"email"`
}

type ProductType struct {
	TypeID int    `gorm:"primaryKey"         json:"type_id"`
	Type   string `gorm:"not null;size:255"  json:"type"`
}

// ProductView is a Product joined with its resolved type name, the shape
// listings and the filter endpoint return.
type ProductView struct {
	ProductName  string    `json:"product_name"`
	Quantity     float64   `json:"quantity"`
	Price        float64   `json:"price"`
	DateSupplied time.Time `json:"date_supplied"`
	TypeName     string    `json:"type_name"`
	Email        string    `json:"email"`
}

// ProviderAccount is an account held by the identity provider. Directory
// records reference it by ID, never the other way around.
type ProviderAccount struct {
	ID                 string     `gorm:"primaryKey;size:64"           json:"id"`
	Email              string     `gorm:"uniqueIndex;not null;size:50" json:"email"`
	PasswordHash       string     `gorm:"not null"                     json:"-"`
	DisplayName        string     `gorm:"size:255"                     json:"display_name"`
	MustChangePassword bool       `gorm:"default:false"                json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at"`
}

// SameName reports whether two product names collide under the
// case-insensitive per-farmer uniqueness rule.
func SameName(a, b string) bool {
	return strings.EqualFold(a, b)
}
