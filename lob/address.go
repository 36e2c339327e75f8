package lob

import (
	"context"
	"strings"
	"time"
)

// Address is a saved address.
type Address struct {
	ID             string    `json:"id"`
	Description    *string   `json:"description"`
	Name           *string   `json:"name"`
	Company        *string   `json:"company"`
	Phone          *string   `json:"phone"`
	Email          *string   `json:"email"`
	AddressLine1   string    `json:"address_line1"`
	AddressLine2   *string   `json:"address_line2"`
	AddressCity    *string   `json:"address_city"`
	AddressState   *string   `json:"address_state"`
	AddressZip     *string   `json:"address_zip"`
	AddressCountry *string   `json:"address_country"`
	Metadata       Metadata  `json:"metadata"`
	DateCreated    time.Time `json:"date_created"`
	DateModified   time.Time `json:"date_modified"`
	// Deleted is nil until the resource has been deleted at least once.
	Deleted *bool `json:"deleted,omitempty"`
}

func (a Address) MarshalJSON() ([]byte, error) {
	type plain Address
	return encodeObject(ObjectAddress, plain(a))
}

func (a *Address) UnmarshalJSON(data []byte) error {
	type plain Address
	return decodeObject(data, ObjectAddress, (*plain)(a))
}

func (*Address) isEventBody() {}

// NewAddress is the input to CreateAddress.
type NewAddress struct {
	Description    *string  `json:"description,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Company        *string  `json:"company,omitempty"`
	Phone          *string  `json:"phone,omitempty"`
	Email          *string  `json:"email,omitempty"`
	AddressLine1   string   `json:"address_line1"`
	AddressLine2   *string  `json:"address_line2,omitempty"`
	AddressCity    *string  `json:"address_city,omitempty"`
	AddressState   *string  `json:"address_state,omitempty"`
	AddressZip     *string  `json:"address_zip,omitempty"`
	AddressCountry *string  `json:"address_country,omitempty"`
	Metadata       Metadata `json:"metadata,omitempty"`
}

// Validate checks the request before it is sent.
func (a *NewAddress) Validate() error {
	if a == nil {
		return validationError("address is required")
	}
	if strings.TrimSpace(a.AddressLine1) == "" {
		return validationError("address_line1 is required")
	}
	return nil
}

// SendAddress is the recipient or sender of a mail piece: an AddressID of a
// saved address or inline AddressComponents. It encodes as whichever
// variant it holds, with no wrapper.
type SendAddress interface {
	isSendAddress()
}

// AddressID references a saved address, e.g. "adr_d3489cd64c791ab5".
type AddressID string

// AddressComponents is an inline address.
type AddressComponents struct {
	Name           string  `json:"name"`
	AddressLine1   string  `json:"address_line1"`
	AddressLine2   *string `json:"address_line2,omitempty"`
	AddressCity    string  `json:"address_city"`
	AddressState   string  `json:"address_state"`
	AddressZip     string  `json:"address_zip"`
	AddressCountry *string `json:"address_country,omitempty"`
}

func (AddressID) isSendAddress()         {}
func (AddressComponents) isSendAddress() {}

func validateSendAddress(field string, sa SendAddress) error {
	switch a := sa.(type) {
	case nil:
		return validationError("%s is required", field)
	case AddressID:
		if strings.TrimSpace(string(a)) == "" {
			return validationError("%s address id is empty", field)
		}
	case AddressComponents:
		return validateComponents(field, &a)
	case *AddressComponents:
		if a == nil {
			return validationError("%s is required", field)
		}
		return validateComponents(field, a)
	}
	return nil
}

func validateComponents(field string, a *AddressComponents) error {
	if strings.TrimSpace(a.AddressLine1) == "" {
		return validationError("%s.address_line1 is required", field)
	}
	return nil
}

// CreateAddress saves a new address.
func (c *Client) CreateAddress(ctx context.Context, address *NewAddress) (*Address, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}
	var out Address
	if err := c.post(ctx, "/addresses", nil, address, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAddress retrieves a saved address.
func (c *Client) GetAddress(ctx context.Context, id string) (*Address, error) {
	path, err := resourcePath("/addresses", id)
	if err != nil {
		return nil, err
	}
	var out Address
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAddress deletes a saved address.
func (c *Client) DeleteAddress(ctx context.Context, id string) (*Deletion, error) {
	path, err := resourcePath("/addresses", id)
	if err != nil {
		return nil, err
	}
	var out Deletion
	if err := c.delete(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAddresses returns a page of saved addresses. opts may be nil.
func (c *Client) ListAddresses(ctx context.Context, opts *ListAddressesOptions) (*List[Address], error) {
	var out List[Address]
	if err := c.get(ctx, "/addresses", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
