package user

// User represents a user record in the system.
type User struct {
	ID        int64  // ID is the store-assigned unique identifier
	FirstName string // FirstName is the user's first name
	LastName  string // LastName is the user's last name
	Email     string // Email is the unique email address of the user
	Address   string // Address is the user's postal address, may be empty
}
