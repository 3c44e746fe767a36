package auth

// Outcome is the closed set of results of authenticating one request.
type Outcome int

const (
	OutcomeAuthenticated Outcome = iota + 1
	OutcomeMissingToken
	OutcomeInvalidToken
	OutcomeMalformedClaim
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeMissingToken:
		return "missing_token"
	case OutcomeInvalidToken:
		return "invalid_token"
	case OutcomeMalformedClaim:
		return "malformed_claim"
	default:
		return "unknown"
	}
}

// Result is what the authenticator decided for a request. Context is non-nil only
// for OutcomeAuthenticated; Err is non-nil for every other outcome.
type Result struct {
	Outcome Outcome
	Context *AuthenticatedContext
	Err     error
}

// Authenticated reports whether the request carries a verified identity.
func (r Result) Authenticated() bool {
	return r.Outcome == OutcomeAuthenticated && r.Context != nil
}

func rejected(outcome Outcome, err error) Result {
	return Result{Outcome: outcome, Err: err}
}
