package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StaffRole string

const (
	RoleManager StaffRole = "Manager"
	RoleKitchen StaffRole = "Kitchen"
	RoleWaiter  StaffRole = "Waiter"
)

func (r StaffRole) Valid() bool {
	switch r {
	case RoleManager, RoleKitchen, RoleWaiter:
		return true
	}
	return false
}

type Staff struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Pin       string             `bson:"pin" json:"pin"`
	Role      StaffRole          `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Shop is the tenant document. Password holds the bcrypt hash and never leaves the server.
type Shop struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID         string             `bson:"userId" json:"userId"`
	Username       string             `bson:"username" json:"username"`
	Email          string             `bson:"email" json:"email,omitempty"`
	Password       string             `bson:"password" json:"-"`
	Logo           string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Cover          string             `bson:"cover,omitempty" json:"cover,omitempty"`
	ShopName       string             `bson:"shopname,omitempty" json:"shopname,omitempty"`
	Address        string             `bson:"address,omitempty" json:"address,omitempty"`
	ContactPhone   string             `bson:"contactphone,omitempty" json:"contactphone,omitempty"`
	PrimaryColor   string             `bson:"primarycolor" json:"primarycolor"`
	SecondaryColor string             `bson:"secondarycolor" json:"secondarycolor"`
	Staff          []Staff            `bson:"staff" json:"staff"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

const (
	DefaultPrimaryColor   = "#000000"
	DefaultSecondaryColor = "#ffffff"
)

// Public returns a copy safe for the customer storefront: no email, no staff PINs.
func (s Shop) Public() Shop {
	s.Email = ""
	s.Password = ""
	s.Staff = nil
	return s
}

// ShopProfileUpdate carries the settings form. Nil pointers are left untouched.
type ShopProfileUpdate struct {
	ShopName       *string
	Address        *string
	ContactPhone   *string
	PrimaryColor   *string
	SecondaryColor *string
	Logo           *string
	Cover          *string
}

func (u ShopProfileUpdate) Empty() bool {
	return u.ShopName == nil && u.Address == nil && u.ContactPhone == nil &&
		u.PrimaryColor == nil && u.SecondaryColor == nil && u.Logo == nil && u.Cover == nil
}
