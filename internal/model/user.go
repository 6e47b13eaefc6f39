package model

// User is the single mutable record of a session. It is persisted as one JSON
// blob under UserKey.
type User struct {
	Username    string  `json:"username"`
	Points      float64 `json:"points"`
	IsLoggedIn  bool    `json:"isLoggedIn"`
	LastCheckIn string  `json:"lastCheckIn,omitempty"`
}

const (
	UserKey       = "herspace_user"
	InitialPoints = 100
	GuestName     = "访客"
)

func DefaultUser() User {
	return User{Points: InitialPoints}
}
