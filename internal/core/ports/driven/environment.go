package driven

// Environment provides access to environment-supplied configuration,
// including values loaded from a .env file.
type Environment interface {
	// Lookup returns the value of key and whether it is set.
	Lookup(key string) (string, bool)
}
