package services

import (
	"pickem-app-go/logging"
	"pickem-app-go/models"
	"time"
)

// UserSeeder handles seeding the database with initial users
type UserSeeder struct {
	userRepo UserRepository
}

// NewUserSeeder creates a new user seeder
func NewUserSeeder(userRepo UserRepository) *UserSeeder {
	return &UserSeeder{
		userRepo: userRepo,
	}
}

// SeedUsers creates the development league roster. Existing users are
// left untouched, so running on every startup is safe.
func (s *UserSeeder) SeedUsers() error {
	users := []struct {
		ID       int
		Name     string
		Email    string
		Password string
		IsAdmin  bool
	}{
		{0, "COMMISH", "commish@pickem.local", "password123", true},
		{1, "ALEX", "alex@pickem.local", "password123", false},
		{2, "JORDAN", "jordan@pickem.local", "password123", false},
		{3, "SAM", "sam@pickem.local", "password123", false},
		{4, "CASEY", "casey@pickem.local", "password123", false},
		{5, "RILEY", "riley@pickem.local", "password123", false},
	}

	var existingCount, createdCount int

	for _, userData := range users {
		// Check if user already exists
		existingUser, err := s.userRepo.GetUserByEmail(userData.Email)
		if err == nil && existingUser != nil {
			existingCount++
			continue
		}

		user := &models.User{
			ID:        userData.ID,
			Name:      userData.Name,
			Email:     userData.Email,
			IsAdmin:   userData.IsAdmin,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		// Hash the password
		if err := user.HashPassword(userData.Password); err != nil {
			logging.Errorf("Failed to hash password for %s: %v", userData.Email, err)
			continue
		}

		// Create user in database
		if err := s.userRepo.CreateUser(user); err != nil {
			logging.Errorf("Failed to create user %s: %v", userData.Email, err)
			continue
		}

		logging.Infof("Created user %s (%s) with ID %d", userData.Name, userData.Email, userData.ID)
		createdCount++
	}

	if existingCount > 0 || createdCount > 0 {
		logging.Infof("Completed Seeding Users - %d existing, %d created", existingCount, createdCount)
	}
	return nil
}

// ResetUserPasswords resets every user's password to a default value (for development)
func (s *UserSeeder) ResetUserPasswords(newPassword string) error {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return err
	}

	for _, user := range users {
		// Hash new password
		if err := user.HashPassword(newPassword); err != nil {
			logging.Errorf("Failed to hash new password for %s: %v", user.Email, err)
			continue
		}

		// Update user in database
		if err := s.userRepo.UpdateUser(user); err != nil {
			logging.Errorf("Failed to update password for %s: %v", user.Email, err)
			continue
		}

		logging.Infof("Reset password for %s", user.Email)
	}

	logging.Infof("Password reset completed")
	return nil
}
