package model

// Identity is the request-scoped authenticated identity.
//
// It is derived once per request from a verified token by the auth
// middleware, attached to the request context, and discarded when the
// request ends. It is never persisted and holds no rights by itself —
// it is input to the ownership check in the service layer.
//
// WHY A SEPARATE TYPE AND NOT *User?
// Handlers and services only need to know WHO is calling (id + email).
// Passing the full User around would drag the password hash and
// timestamps through every call chain for no reason.
type Identity struct {
	ID    string
	Email string
}
