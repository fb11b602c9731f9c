// Package client contains the client side of the identity backend.
//
// # Overview
//
// The package provides:
//  1. The Identity contract used by the session coordinator: account
//     creation, sign-in/out, display-name and password changes,
//     re-authentication and an ordered stream of session changes.
//  2. GRPCIdentity, a gRPC implementation that injects the id token and a
//     request id into every call, refreshes an expired id token once,
//     persists the session locally and restores it on start.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite session cache.
//
// # Error Handling
//
// Backend failures are returned as *AccountError carrying the backend code
// ("auth/wrong-password", ...). Transport failures carry
// "auth/network-request-failed" and wrap ErrUnavailable; rejected tokens wrap
// ErrUnauthorized. Match with errors.Is / errors.As or CodeOf.
package client
