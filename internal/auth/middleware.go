package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/LOUBNATANASSA/project-tasks/internal/model"
)

// contextKey is an unexported type used for context keys in this package.
//
// WHY A CUSTOM TYPE FOR CONTEXT KEYS?
// context.WithValue uses any as the key type. If you use a plain string like
// context.WithValue(ctx, "identity", id), ANY package that knows the string
// "identity" can read or shadow your value. Using a package-private type
// prevents collisions: only THIS package can create a key of type contextKey,
// so only this package can read or write identity values in the context.
type contextKey string

const identityKey contextKey = "identity"

// bearerPrefix is the fixed scheme prefix on the Authorization header.
// The trailing space is part of the prefix: "Bearer <token>".
const bearerPrefix = "Bearer "

// ErrNoCredential reports that the request carried no bearer credential
// at all (missing header or wrong scheme). It is deliberately distinct
// from an invalid credential — the two are logged differently, though
// both leave the request anonymous.
var ErrNoCredential = errors.New("auth: no credential presented")

// UserLookup resolves a verified token subject to a full user record.
// The repository's user store satisfies this; tests plug in a fake.
//
// Accepting a one-method interface (instead of the concrete repository)
// keeps this package free of any storage dependency.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// ResolveIdentity is the per-request identity resolver.
//
// It extracts a bearer token from the Authorization header, validates it,
// and resolves the subject email against the user store. On success the
// resulting Identity is attached to the request context. On absence or
// ANY failure the request simply proceeds without an identity — it is
// each protected handler's job to reject anonymous requests with 401.
//
// FAIL-OPEN HERE, FAIL-CLOSED THERE:
// The middleware never writes a response itself. That keeps public
// routes (none today, but sign-up/sign-in sit outside this middleware)
// and protected routes on the same pipeline, and guarantees a broken
// token can never be half-trusted: either the full chain (structure →
// signature → expiry → store lookup) succeeds, or the caller is nobody.
//
// THE STORE LOOKUP MATTERS:
// A token outlives the account it was issued for if the account is
// deleted. Resolving the subject against the store on every request
// guarantees tokens of deleted users stop working immediately.
func ResolveIdentity(tokens *TokenService, users UserLookup, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolve(r, tokens, users)
			switch {
			case err == nil:
				ctx := context.WithValue(r.Context(), identityKey, identity)
				r = r.WithContext(ctx)
			case errors.Is(err, ErrNoCredential):
				// Anonymous request — nothing to log, nothing to attach.
			default:
				// Invalid token, expired token, or the subject no longer
				// exists. Internally we record the cause; to the caller
				// all of these are indistinguishable from "no identity".
				logger.Debug("discarding invalid credential",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext retrieves the authenticated identity from the
// request context.
//
// Returns (nil, false) if the request is anonymous. Protected handlers
// call this first and respond 401 when ok is false:
//
//	identity, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // respond 401, perform no mutation
//	}
func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	id, ok := ctx.Value(identityKey).(*model.Identity)
	return id, ok && id != nil
}

// resolve runs the full extraction chain for one request.
func resolve(r *http.Request, tokens *TokenService, users UserLookup) (*model.Identity, error) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return nil, ErrNoCredential
	}

	// Verify signature + expiry first; only then is the subject trusted.
	email, err := tokens.Validate(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		return nil, err
	}

	user, err := users.GetByEmail(r.Context(), email)
	if err != nil {
		return nil, err
	}

	return &model.Identity{ID: user.ID, Email: user.Email}, nil
}
