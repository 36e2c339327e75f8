package lob

import "context"

// API defines the interface for Lob operations. This allows for easier
// testing and mocking.
type API interface {
	// Addresses
	CreateAddress(ctx context.Context, address *NewAddress) (*Address, error)
	GetAddress(ctx context.Context, id string) (*Address, error)
	DeleteAddress(ctx context.Context, id string) (*Deletion, error)
	ListAddresses(ctx context.Context, opts *ListAddressesOptions) (*List[Address], error)

	// Verification
	VerifyUSAddress(ctx context.Context, address USVerificationInput, opts *VerifyOptions) (*USVerification, error)
	AutocompleteUSAddress(ctx context.Context, prefix string, opts *AutocompleteOptions) (*USAutocompletion, error)
	LookupUSZip(ctx context.Context, zipCode string) (*USZipLookup, error)
	VerifyIntlAddress(ctx context.Context, address *IntlVerificationInput) (*IntlVerification, error)

	// Postcards
	CreatePostcard(ctx context.Context, postcard *NewPostcard, opts ...RequestOption) (*Postcard, error)
	GetPostcard(ctx context.Context, id string) (*Postcard, error)
	CancelPostcard(ctx context.Context, id string) (*Deletion, error)
	ListPostcards(ctx context.Context, opts *ListPostcardsOptions) (*List[Postcard], error)

	// Letters
	CreateLetter(ctx context.Context, letter *NewLetter, opts ...RequestOption) (*Letter, error)
	GetLetter(ctx context.Context, id string) (*Letter, error)
	CancelLetter(ctx context.Context, id string) (*Deletion, error)
	ListLetters(ctx context.Context, opts *ListLettersOptions) (*List[Letter], error)

	// Checks
	CreateCheck(ctx context.Context, check *NewCheck, opts ...RequestOption) (*Check, error)
	GetCheck(ctx context.Context, id string) (*Check, error)
	CancelCheck(ctx context.Context, id string) (*Deletion, error)
	ListChecks(ctx context.Context, opts *ListChecksOptions) (*List[Check], error)

	// Bank accounts
	CreateBankAccount(ctx context.Context, account *NewBankAccount) (*BankAccount, error)
	GetBankAccount(ctx context.Context, id string) (*BankAccount, error)
	DeleteBankAccount(ctx context.Context, id string) (*Deletion, error)
	VerifyBankAccount(ctx context.Context, id string, amounts [2]uint32) (*BankAccount, error)
	ListBankAccounts(ctx context.Context, opts *ListBankAccountsOptions) (*List[BankAccount], error)
}

// Ensure Client implements API
var _ API = (*Client)(nil)
