// Package repomanager vends repositories bound to a connection or a
// transaction, and owns the transaction boundary used by services.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error

	// Conn is the non-transactional handle to pass to the factories.
	Conn() dbx.DBTX

	// WithTx runs fn in a transaction; repositories built from the tx
	// handle take part in it.
	WithTx(ctx context.Context, fn dbx.TxFunc) error

	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
