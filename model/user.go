package model

// User is a row of the users table and the shape of every response.
type User struct {
	ID        uint   `gorm:"primary_key" json:"id"`
	Firstname string `gorm:"not null;index" json:"firstname"`
	Lastname  string `gorm:"not null;index" json:"lastname"`
	ZipCode   string `gorm:"column:zip_code;not null" json:"zip_code"`
	Country   string `gorm:"not null" json:"country"`
}

func (User) TableName() string {
	return "users"
}

// UserInput is the request body for create and update. Pointers let the
// validator tell a missing field from an empty string.
type UserInput struct {
	Firstname *string `json:"firstname" validate:"required"`
	Lastname  *string `json:"lastname" validate:"required"`
	ZipCode   *string `json:"zip_code" validate:"required"`
	Country   *string `json:"country" validate:"required"`
}

// NewUserInput builds a complete input from plain values.
func NewUserInput(firstname, lastname, zipCode, country string) UserInput {
	return UserInput{
		Firstname: &firstname,
		Lastname:  &lastname,
		ZipCode:   &zipCode,
		Country:   &country,
	}
}

// Apply overwrites every mutable field of u. The id is left untouched.
func (in UserInput) Apply(u *User) {
	u.Firstname = deref(in.Firstname)
	u.Lastname = deref(in.Lastname)
	u.ZipCode = deref(in.ZipCode)
	u.Country = deref(in.Country)
}

// ToUser returns a new, unsaved record.
func (in UserInput) ToUser() User {
	u := User{}
	in.Apply(&u)
	return u
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
