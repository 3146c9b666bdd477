package user

import (
	"github.com/nodehive/nodehive/internal/types"
)

// User is a platform account. Team membership is modelled on the team side.
type User struct {
	// ID is the unique identifier for the user
	ID string `db:"id" json:"id"`

	// Username is the unique login name
	Username string `db:"username" json:"username"`

	// Email is the user's email address
	Email string `db:"email" json:"email"`

	// Name is the user's display name
	Name string `db:"name" json:"name"`

	// Admin marks platform administrators
	Admin bool `db:"admin" json:"admin"`

	types.BaseModel
}
