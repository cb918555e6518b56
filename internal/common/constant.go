package common

// AuthorizationHeaderName carries the access token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RefreshTokenStorageKey is the well-known key of the persisted refresh token
// in the client key/value store.
const RefreshTokenStorageKey = "refresh_token"
