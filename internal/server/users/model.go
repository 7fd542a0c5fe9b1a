package users

import (
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/cryptox"
)

// Account is a stored user with its password verifier.
type Account struct {
	User     models.User
	Password cryptox.PasswordHash
}
