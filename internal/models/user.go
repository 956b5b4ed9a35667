package models

// User is a registered account. The password is only ever held as a bcrypt hash.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatarUrl"`
	PasswordHash string `json:"-"` // don’t expose hash
}

// Credentials is the sign-in payload submitted by a client.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SeedUser is a plaintext user entry loaded at startup. Passwords are hashed before
// the record reaches any store.
type SeedUser struct {
	ID        int    `mapstructure:"id"`
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
	AvatarURL string `mapstructure:"avatar_url"`
	Password  string `mapstructure:"password"`
}
