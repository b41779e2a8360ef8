package repository

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cableerp/models"
)

// prepareUser hashes the plain password and fills defaults before insert.
func prepareUser(user *models.AppUser) error {
	if user.Password == "" {
		return errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.ID == "" {
		user.ID = models.NewID()
	}
	if user.Role == "" {
		user.Role = "user"
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return nil
}
