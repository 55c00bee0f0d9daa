package model

// User represents the authenticated guest identity as returned by the
// hotel API's auth endpoints. The json tags mirror the wire format of
// POST /api/auth/login, which returns the user next to its token.
//
// Fields:
//  ID    – numeric identifier of the user.
//  Name  – display name shown in the client.
//  Email – unique email address used to sign in.
//  Role  – role name (e.g. GUEST or ADMIN); the guest client only ever
//          acts as GUEST but keeps the field for display.
type User struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
