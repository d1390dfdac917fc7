package service

// Actor is the resolved identity + role pair the caller supplies with every
// operation. The core never resolves identity itself; the auth middleware
// builds this from validated token claims.
type Actor struct {
	ID    string
	Email string
	Name  string
	Role  string
}
