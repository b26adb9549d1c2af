package wfmapimodels

// TokenResponse is the OAuth-style bearer token issued by the WFM auth
// endpoint, required before a logon call can be made.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// LogonResponse carries the WFM session established by a logon call.
type LogonResponse struct {
	Status       string `json:"status"`
	Jsession     string `json:"jsession"`
	ErrorMessage string `json:"error_message,omitempty"`
}
