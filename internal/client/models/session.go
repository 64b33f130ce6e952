package models

// AuthSession pairs the teacher's bearer token with the username it was
// issued for. A session with an empty Token is logged out.
type AuthSession struct {
	Token    string
	Username string
}

// Authenticated reports whether s carries a token.
func (s AuthSession) Authenticated() bool {
	return s.Token != ""
}

// DisplayName is the username, or "teacher" when the server did not return
// one.
func (s AuthSession) DisplayName() string {
	if s.Username == "" {
		return "teacher"
	}
	return s.Username
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// ResultResponse is the body of signup, unregister and logout responses.
// Message is set on success, Detail on failure.
type ResultResponse struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
