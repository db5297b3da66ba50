// Package bank holds the domain clients: each call is exactly one GraphQL
// operation whose response is mapped onto typed records.
package bank

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Rina-ui/Front-TP-JEE/internal/gql"
)

// Runner executes one GraphQL operation. *gql.Client satisfies it.
type Runner interface {
	Run(ctx context.Context, op gql.Operation, vars map[string]any, out any) error
}

// Clients bundles the domain clients sharing one transport.
type Clients struct {
	Auth         *AuthClient
	Accounts     *AccountClient
	Transactions *TransactionClient
	Directory    *DirectoryClient
}

// New builds every domain client over runner.
func New(runner Runner, log zerolog.Logger) *Clients {
	return &Clients{
		Auth:         &AuthClient{run: runner, log: log},
		Accounts:     &AccountClient{run: runner, log: log},
		Transactions: &TransactionClient{run: runner, log: log},
		Directory:    &DirectoryClient{run: runner, log: log},
	}
}

// mapAll converts raw records, dropping and logging the ones carrying values
// outside the closed sets.
func mapAll[R any, M any](log zerolog.Logger, op string, raws []R, conv func(R) (M, error)) []M {
	out := make([]M, 0, len(raws))
	for i, raw := range raws {
		m, err := conv(raw)
		if err != nil {
			log.Warn().Err(err).Str("operation", op).Int("index", i).Msg("rejecting record")
			continue
		}
		out = append(out, m)
	}
	return out
}
