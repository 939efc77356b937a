package auth

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// Claims is the caller identity carried by an access token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID *string
	Role       user.Role
}

// ClaimsFromContext reads the verified access token claims placed in ctx by jwtauth.Verifier.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return Claims{}, ErrMissingClaims
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrMissingClaims
	}

	c := Claims{UserID: userID}
	c.Email, _ = claims["email"].(string)
	if role, ok := claims["role"].(string); ok {
		c.Role = user.Role(role)
	}
	if employeeID, ok := claims["employee_id"].(string); ok && employeeID != "" {
		c.EmployeeID = &employeeID
	}
	return c, nil
}

// EmployeeIDFromContext returns the caller's employee id, failing when the
// account has no employee profile.
func EmployeeIDFromContext(ctx context.Context) (string, error) {
	c, err := ClaimsFromContext(ctx)
	if err != nil {
		return "", err
	}
	if c.EmployeeID == nil {
		return "", ErrNoEmployeeProfile
	}
	return *c.EmployeeID, nil
}
