package domain

// User is the authenticated account as seen by this service. Accounts live
// in the external identity provider; we only ever hold the claims it signed.
type User struct {
	ID    string
	Email string
	Name  string
}
