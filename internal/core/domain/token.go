package domain

// TokenPair is the transient credential pair handed to clients. Both tokens
// are independently signed and independently verifiable; neither is persisted.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
