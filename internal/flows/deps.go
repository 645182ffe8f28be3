package flows

// Deps groups flow dependency sets. The root Manager builds this once and
// delegates operation methods to the matching flow implementation.
type Deps struct {
	Login    LoginDeps
	Register RegisterDeps
	Validate ValidateDeps
}
