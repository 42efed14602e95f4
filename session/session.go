package session

// Data is one cached session record, keyed by the subject's username.
// AccessToken and RefreshToken hold ciphertext - the plaintext tokens
// never exist in any persisted form, only in process memory while a
// request handles them.
type Data struct {
	Username     string `json:"username"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Expiry       int64  `json:"expiry"`
}
