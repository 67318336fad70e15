package travessera

import "encoding/base64"

// Authentication mutates an outgoing request to carry credentials. It runs
// once per call, after the request is built and before the retry loop, so
// every attempt sends the same credentials.
type Authentication interface {
	Apply(req *Request)
}

// APIKeyAuthentication sends a static key in a header. Header defaults to
// "X-API-Key" when empty.
type APIKeyAuthentication struct {
	Key    string
	Header string
}

// Apply sets the API key header.
func (a APIKeyAuthentication) Apply(req *Request) {
	header := a.Header
	if header == "" {
		header = "X-API-Key"
	}
	req.Headers.Set(header, a.Key)
}

// BearerTokenAuthentication sends an OAuth2-style bearer token.
type BearerTokenAuthentication struct {
	Token string
}

// Apply sets the Authorization header.
func (a BearerTokenAuthentication) Apply(req *Request) {
	req.Headers.Set("Authorization", "Bearer "+a.Token)
}

// BasicAuthentication sends RFC 7617 basic credentials.
type BasicAuthentication struct {
	Username string
	Password string
}

// Apply sets the Authorization header.
func (a BasicAuthentication) Apply(req *Request) {
	creds := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	req.Headers.Set("Authorization", "Basic "+creds)
}

// HeaderAuthentication sends an arbitrary static header.
type HeaderAuthentication struct {
	Name  string
	Value string
}

// Apply sets the configured header.
func (a HeaderAuthentication) Apply(req *Request) {
	req.Headers.Set(a.Name, a.Value)
}

// NoAuthentication leaves requests untouched. Useful as an explicit marker
// in service configuration.
type NoAuthentication struct{}

// Apply does nothing.
func (NoAuthentication) Apply(*Request) {}

// ChainAuthentication applies several strategies in order; on header
// collisions the later strategy wins.
type ChainAuthentication struct {
	auths []Authentication
}

// NewChainAuthentication builds a chain from the given strategies.
func NewChainAuthentication(auths ...Authentication) ChainAuthentication {
	return ChainAuthentication{auths: auths}
}

// Apply applies every strategy in registration order.
func (a ChainAuthentication) Apply(req *Request) {
	for _, auth := range a.auths {
		auth.Apply(req)
	}
}
