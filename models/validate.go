package models

import "github.com/go-playground/validator/v10"

// ValidUserRole is a binding rule for the closed role enum, registered
// on gin's validator engine at route setup.
func ValidUserRole(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).Valid()
}

// ValidUserStatus accepts only the admin moderation states.
func ValidUserStatus(fl validator.FieldLevel) bool {
	return UserStatus(fl.Field().String()).Valid()
}

// ValidNotificationType accepts only the known delivery channels.
func ValidNotificationType(fl validator.FieldLevel) bool {
	return NotificationType(fl.Field().String()).Valid()
}
