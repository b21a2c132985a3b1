// Package usermgmt is the client-side session and authorization core for the
// user management API: it establishes, persists, attaches, validates, and
// tears down an authenticated session, and gates access to protected
// destinations and actions based on that session's claims.
//
// Session handling:
//   - SessionStore owns the credential/claims pair. The pair is written and
//     cleared atomically; a reload reconstructs the session from the durable
//     FileStore without a network round trip. No expiry is evaluated locally,
//     the server is the sole authority on credential validity.
//   - Client is the single outbound pipeline. It attaches the bearer
//     credential to every request and classifies every response. A 401 from
//     any authorized call clears the store and signals the Navigator toward
//     the login entry point, exactly once per failure burst.
//
// Access policy:
//   - Session exposes pure predicates (Authenticated, Admin, CanDeleteUser)
//     over locally cached claims. They are UI affordance gates only; the
//     server re-checks and its denial is final.
//   - RouteGuard re-evaluates the policy on every navigation attempt so a
//     session cleared mid-flight redirects the very next protected navigation.
package usermgmt
