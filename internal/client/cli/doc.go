// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the local session store, the HTTP session client
// and an interactive REPL. Typical flow: register or log in once, then run
// authenticated commands; expired access tokens are refreshed transparently
// and the session survives restarts through the persisted refresh token.
//
// Commands:
//   - register / login
//   - me
//   - logout / logout-all
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
