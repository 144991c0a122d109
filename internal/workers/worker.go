package workers

// Worker is a background job owned by the Manager.
type Worker interface {
	Start() error

	// Stop blocks until the in-flight run finishes.
	Stop()

	Name() string
}
