package flows

import (
	"context"
	"encoding/json"

	"github.com/ihdrs/ihdrs-client-go/api"
)

// Service is the centralized flow runner built once by the root Manager.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Login.Call != nil
}

func (s Service) Login(ctx context.Context, username, password string) (*api.LoginPayload, error) {
	return RunLogin(ctx, username, password, s.deps.Login)
}

func (s Service) Register(ctx context.Context, req api.RegisterRequest) (json.RawMessage, error) {
	return RunRegister(ctx, req, s.deps.Register)
}

func (s Service) Validate(ctx context.Context, credential string) ValidateResult {
	return RunValidate(ctx, credential, s.deps.Validate)
}
