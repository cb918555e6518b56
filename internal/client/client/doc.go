// Package client contains the client-side half of the token lifecycle.
//
// # Overview
//
//  1. Session holds the access token in memory and persists the refresh
//     token in a metadata.Repository under common.RefreshTokenStorageKey.
//  2. RefreshCoordinator collapses concurrent refresh attempts into one
//     call to the server and hands its outcome to every waiter in order.
//  3. AuthSessionClient is the HTTP API client. Authenticated calls that
//     fail with 401 go through the coordinator once and are replayed with
//     the new access token.
//  4. InitDatabase opens the local SQLite database and applies the embedded
//     goose migrations.
//
// # Error Handling
//
// Non-2xx responses become *APIError, which unwraps to the common sentinel
// for its kind (common.ErrInvalidCredentials and friends). Transport failures
// wrap ErrUnavailable. A failed refresh wraps ErrSessionExpired and always
// clears both tokens.
//
// All types are safe for concurrent use.
package client
