package mockapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/AntonStoeckl/library-borrow-desk/library/shared/core"
)

// AccountsClient talks to the accounts resource. Accounts are never updated or deleted.
type AccountsClient struct {
	baseURL   string
	transport transport
}

func NewAccountsClient(baseURL string, opts ...Option) *AccountsClient {
	return &AccountsClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		transport: newTransport(opts),
	}
}

func (c *AccountsClient) ListAccounts(ctx context.Context) ([]core.Account, error) {
	accounts := make([]core.Account, 0)

	err := c.transport.doJSON(ctx, http.MethodGet, c.baseURL, nil, &accounts)
	if errors.Is(err, errNotFound) {
		return []core.Account{}, nil
	}

	return accounts, err
}

func (c *AccountsClient) CreateAccount(ctx context.Context, account core.Account) (core.Account, error) {
	account.ID = ""
	var created core.Account

	if err := c.transport.doJSON(ctx, http.MethodPost, c.baseURL, account, &created); err != nil {
		return core.Account{}, err
	}

	return created, nil
}
