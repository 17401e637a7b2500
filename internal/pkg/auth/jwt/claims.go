package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JWT claims for DuoChat.
// It embeds the standard claims required by the JWT specification plus the
// custom claims needed to identify the token holder.
type Payload struct {
	// StandardClaims embeds the standard JWT fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These drive token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the unique identifier of the authenticated user.
	ID string `json:"id"`

	// Name is the user's display name, carried so the client can render the
	// session without an extra profile fetch.
	Name string `json:"name"`
}
