package auth

// Middleware verifies the system credential. It is immutable after construction.
type Middleware struct {
	token  []byte
	header string
}
