package domain

// User is an account record from users.json.
type User struct {
	ID       string `json:"uuid"`
	FullName string `json:"full_name"`
	Email    string `json:"email_address"`
	Phone    string `json:"verified_phone_number"`
}
