package users

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrWeakPassword = errors.New("password must be at least 8 characters long and contain both letters and numbers")
	ErrNoPassword   = errors.New("account has no password")
)

// IsPasswordStrong requires 8+ characters with at least one letter and one digit.
func IsPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func HashPassword(password string) (string, error) {
	if !IsPasswordStrong(password) {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword compares password with the stored hash.
func (u User) CheckPassword(password string) error {
	if u.Password == nil || *u.Password == "" {
		return ErrNoPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(*u.Password), []byte(password))
}

// UpsertLocal creates a local account or resets the password, name and role
// of an existing one with the same email.
func UpsertLocal(db *gorm.DB, name, email, password, role string) (User, error) {
	if !IsRole(role) {
		return User{}, fmt.Errorf("unknown role %q", role)
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return User{}, err
	}

	var u User
	err = db.Where("email = ?", NormalizeEmail(email)).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		u = User{
			Name:         name,
			Email:        email,
			Password:     &hashed,
			AuthProvider: ProviderLocal,
			Role:         role,
			Active:       true,
		}
		return u, db.Create(&u).Error
	case err != nil:
		return User{}, err
	}

	u.Name = name
	u.Password = &hashed
	u.Role = role
	u.Active = true
	return u, db.Save(&u).Error
}

// TouchLogin records a successful sign-in.
func TouchLogin(db *gorm.DB, u *User, now time.Time) error {
	u.LastLoginAt = &now
	return db.Model(u).Update("last_login_at", now).Error
}
