package oauth

// GrantType selects which OAuth2 grant an exchange performs.
type GrantType string

const (
	// GrantAuthorizationCode exchanges the code returned on the callback.
	GrantAuthorizationCode GrantType = "authorization_code"
	// GrantRefreshToken trades a refresh token for a fresh token pair.
	GrantRefreshToken GrantType = "refresh_token"
)

// TokenResponse is the authorization server's answer to a token request.
// Transient: it is never persisted as-is - the session store encrypts
// both tokens before anything is written.
type TokenResponse struct {
	// Success reports whether the server granted the request. A decodable
	// body with Success=false is still a rejection.
	Success bool `json:"success"`

	// AccessToken is an opaque bearer string presented on resource calls.
	AccessToken string `json:"access_token"`

	// RefreshToken is an opaque string exchanged for new tokens once the
	// access token expires.
	RefreshToken string `json:"refresh_token"`

	// Username identifies the authenticated subject and keys the cached
	// session record.
	Username string `json:"username"`

	// Expiry is the access token expiry in epoch seconds.
	Expiry int64 `json:"expiry"`
}

// UserInfoResponse is the payload of the bearer-authenticated user info
// endpoint.
type UserInfoResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
