package domain

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt cost used when hashing passwords.
var PasswordCost = bcrypt.DefaultCost

// User owns Places and Reviews. The password is only ever held as a hash.
type User struct {
	Model
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
}

func NewUser() *User { return &User{Model: NewModel()} }

func (*User) Kind() Kind { return KindUser }

func (u *User) ToMap() map[string]any {
	m := u.fields(KindUser)
	m["email"] = u.Email
	m["first_name"] = u.FirstName
	m["last_name"] = u.LastName
	return m
}

func (u *User) Apply(attrs map[string]any) error {
	return applyAll(
		func() error { return setString(attrs, "email", &u.Email) },
		func() error { return setString(attrs, "first_name", &u.FirstName) },
		func() error { return setString(attrs, "last_name", &u.LastName) },
		func() error {
			raw, ok := attrs["password"]
			if !ok {
				return nil
			}
			pw, ok := raw.(string)
			if !ok {
				return Invalid("password")
			}
			return u.SetPassword(pw)
		},
	)
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return Invalid("password")
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
