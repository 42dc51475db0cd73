package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleWorker   UserRole = "worker"
	RoleEmployer UserRole = "employer"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleWorker, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// User is stored in the "users" collection. (email, role) is unique.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Role         UserRole           `bson:"role" json:"role"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`

	// worker profile
	City    string   `bson:"city,omitempty" json:"city,omitempty"`
	Pincode string   `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Skills  []string `bson:"skills,omitempty" json:"skills,omitempty"`

	// employer profile
	CompanyName        string `bson:"company_name,omitempty" json:"companyName,omitempty"`
	CompanyWebsite     string `bson:"company_website,omitempty" json:"companyWebsite,omitempty"`
	CompanyDescription string `bson:"company_description,omitempty" json:"companyDescription,omitempty"`

	ResumePath string `bson:"resume_path,omitempty" json:"resumePath,omitempty"`
	PhotoPath  string `bson:"photo_path,omitempty" json:"photoPath,omitempty"`

	IsBlocked bool      `bson:"is_blocked" json:"isBlocked"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Applicant is the slice of a worker profile shown to employers.
type Applicant struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Email  string             `json:"email"`
	Phone  string             `json:"phone,omitempty"`
	City   string             `json:"city,omitempty"`
	Skills []string           `json:"skills,omitempty"`
}

func (u *User) AsApplicant() *Applicant {
	return &Applicant{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Phone:  u.Phone,
		City:   u.City,
		Skills: u.Skills,
	}
}
