package models

// AdminAccount is a back-office operator. Exactly one bootstrap account is
// created at first startup if the table is empty; accounts are never deleted
// by the running service. The password hash is bcrypt, never plaintext.
type AdminAccount struct {
	ID             int
	Username       string
	HashedPassword string
}
