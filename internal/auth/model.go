package auth

// User is the account entity shared by registration and login.
type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	AvatarURL string
}
