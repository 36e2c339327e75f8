package lob

import (
	"context"
	"strings"
	"time"
)

// BankAccount is a bank account used to draw checks.
type BankAccount struct {
	ID            string      `json:"id"`
	Description   *string     `json:"description"`
	Metadata      Metadata    `json:"metadata"`
	RoutingNumber string      `json:"routing_number"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Signatory     string      `json:"signatory"`
	SignatureURL  *string     `json:"signature_url"`
	BankName      string      `json:"bank_name"`
	Verified      bool        `json:"verified"`
	DateCreated   time.Time   `json:"date_created"`
	DateModified  time.Time   `json:"date_modified"`
	Deleted       *bool       `json:"deleted,omitempty"`
}

func (b BankAccount) MarshalJSON() ([]byte, error) {
	type plain BankAccount
	return encodeObject(ObjectBankAccount, plain(b))
}

func (b *BankAccount) UnmarshalJSON(data []byte) error {
	type plain BankAccount
	return decodeObject(data, ObjectBankAccount, (*plain)(b))
}

func (*BankAccount) isEventBody() {}

// NewBankAccount is the input to CreateBankAccount.
type NewBankAccount struct {
	Description   *string     `json:"description,omitempty"`
	RoutingNumber string      `json:"routing_number"`
	AccountNumber string      `json:"account_number"`
	AccountType   AccountType `json:"account_type"`
	Signatory     string      `json:"signatory"`
	Metadata      Metadata    `json:"metadata,omitempty"`
}

// Validate checks the request before it is sent.
func (b *NewBankAccount) Validate() error {
	if b == nil {
		return validationError("bank account is required")
	}
	switch {
	case strings.TrimSpace(b.RoutingNumber) == "":
		return validationError("routing_number is required")
	case strings.TrimSpace(b.AccountNumber) == "":
		return validationError("account_number is required")
	case strings.TrimSpace(b.Signatory) == "":
		return validationError("signatory is required")
	}
	switch b.AccountType {
	case AccountCompany, AccountIndividual:
	default:
		return validationError("account_type must be %q or %q", AccountCompany, AccountIndividual)
	}
	return nil
}

// CreateBankAccount registers a bank account. It must be verified with
// VerifyBankAccount before checks can draw on it.
func (c *Client) CreateBankAccount(ctx context.Context, account *NewBankAccount) (*BankAccount, error) {
	if err := account.Validate(); err != nil {
		return nil, err
	}
	var out BankAccount
	if err := c.post(ctx, "/bank_accounts", nil, account, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBankAccount retrieves a bank account.
func (c *Client) GetBankAccount(ctx context.Context, id string) (*BankAccount, error) {
	path, err := resourcePath("/bank_accounts", id)
	if err != nil {
		return nil, err
	}
	var out BankAccount
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBankAccount deletes a bank account.
func (c *Client) DeleteBankAccount(ctx context.Context, id string) (*Deletion, error) {
	path, err := resourcePath("/bank_accounts", id)
	if err != nil {
		return nil, err
	}
	var out Deletion
	if err := c.delete(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyBankAccount confirms the two micro-deposits, in cents, the API made
// into the account. Each amount must be between 1 and 100.
func (c *Client) VerifyBankAccount(ctx context.Context, id string, amounts [2]uint32) (*BankAccount, error) {
	path, err := resourcePath("/bank_accounts", id)
	if err != nil {
		return nil, err
	}
	for _, a := range amounts {
		if a < 1 || a > 100 {
			return nil, validationError("verification amounts must be between 1 and 100 cents, got %d", a)
		}
	}

	body := struct {
		Amounts [2]uint32 `json:"amounts"`
	}{Amounts: amounts}

	var out BankAccount
	if err := c.post(ctx, path+"/verify", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBankAccounts returns a page of bank accounts. opts may be nil.
func (c *Client) ListBankAccounts(ctx context.Context, opts *ListBankAccountsOptions) (*List[BankAccount], error) {
	var out List[BankAccount]
	if err := c.get(ctx, "/bank_accounts", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
