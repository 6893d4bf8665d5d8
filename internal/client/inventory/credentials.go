package inventory

import (
	"fmt"

	"github.com/atinyakov/tsadmin/internal/models"
	"go.uber.org/zap"
)

// CredentialSource is what the caller supplied. Secrets are optional; a
// missing secret is asked for through the Prompter.
type CredentialSource struct {
	Username    string
	Password    string
	TokenName   string
	TokenSecret string
}

// Prompter asks the user for a secret.
type Prompter func(label string) (string, error)

// ResolveCredential picks the credential variant. A token name wins over a
// username when both are present; neither is a configuration error.
func ResolveCredential(src CredentialSource, prompt Prompter, log *zap.Logger) (models.Credential, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		method     models.AuthMethod
		identifier string
		secret     string
		label      string
	)
	switch {
	case src.TokenName != "":
		if src.Username != "" {
			log.Warn("both username and token given, using token", zap.String("token", src.TokenName))
		}
		method, identifier, secret = models.Token, src.TokenName, src.TokenSecret
		label = src.TokenName + " Value"
	case src.Username != "":
		method, identifier, secret = models.Classic, src.Username, src.Password
		label = src.Username + " Password"
	default:
		return nil, fmt.Errorf("%w: either username or token must be defined", models.ErrConfiguration)
	}

	if secret == "" {
		if prompt == nil {
			return nil, fmt.Errorf("%w: no secret for %q and no prompt available", models.ErrConfiguration, identifier)
		}
		s, err := prompt(label)
		if err != nil {
			return nil, fmt.Errorf("read secret: %w", err)
		}
		secret = s
	}
	return models.NewCredential(method, identifier, secret)
}
