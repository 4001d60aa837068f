package domain

// TokenKind distinguishes access from refresh tokens. Both share the same
// encoding and signing scheme; only TTL and transport differ.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

// SessionPair is the token set returned by login, registration and refresh.
// It is never mutated; refresh replaces it wholesale.
type SessionPair struct {
	AccessToken      string
	RefreshToken     string
	TokenType        string
	ExpiresInSeconds int64
}
