package credential

import "strings"

const redacted = "[REDACTED]"

// Credential is an API secret scoped to a single external provider.
// Its value is only reachable through Reveal; every printing path redacts it.
type Credential struct {
	value string
}

// New wraps a raw secret. Surrounding whitespace is dropped.
func New(value string) Credential {
	return Credential{value: strings.TrimSpace(value)}
}

// IsSet reports whether a secret is present.
func (c Credential) IsSet() bool {
	return c.value != ""
}

// Reveal returns the raw secret for use in an outbound request header.
func (c Credential) Reveal() string {
	return c.value
}

func (c Credential) String() string {
	if !c.IsSet() {
		return ""
	}
	return redacted
}

// MarshalText keeps the secret out of JSON payloads and structured logs.
func (c Credential) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Provider resolves the credential for each external provider at call time.
type Provider interface {
	Search() Credential
	Model() Credential
}

// Static is a Provider over values fixed at process start.
type Static struct {
	search Credential
	model  Credential
}

var _ Provider = (*Static)(nil)

// NewStatic builds a Provider from raw search and model keys.
func NewStatic(searchKey, modelKey string) *Static {
	return &Static{
		search: New(searchKey),
		model:  New(modelKey),
	}
}

func (s *Static) Search() Credential {
	if s == nil {
		return Credential{}
	}
	return s.search
}

func (s *Static) Model() Credential {
	if s == nil {
		return Credential{}
	}
	return s.model
}
