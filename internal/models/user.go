package models

// User is the identity supplied by the session gate.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}
