package interfaces

type Service interface {
	Start() error
	Stop()
	// Addr returns the address the service is listening on once started.
	Addr() string
}
