package lob

import (
	"context"
	"time"
)

// Check is a printed and mailed check.
type Check struct {
	ID                           string          `json:"id"`
	Description                  *string         `json:"description"`
	Metadata                     Metadata        `json:"metadata"`
	CheckNumber                  int             `json:"check_number"`
	Memo                         *string         `json:"memo"`
	Amount                       Money           `json:"amount"`
	Message                      *string         `json:"message"`
	URL                          string          `json:"url"`
	CheckBottomTemplateID        *string         `json:"check_bottom_template_id"`
	AttachmentTemplateID         *string         `json:"attachment_template_id"`
	CheckBottomTemplateVersionID *string         `json:"check_bottom_template_version_id"`
	AttachmentTemplateVersionID  *string         `json:"attachment_template_version_id"`
	To                           Address         `json:"to"`
	From                         Address         `json:"from"`
	BankAccount                  BankAccount     `json:"bank_account"`
	Carrier                      string          `json:"carrier"`
	TrackingNumber               *string         `json:"tracking_number"`
	TrackingEvents               []TrackingEvent `json:"tracking_events"`
	Thumbnails                   []Thumbnails    `json:"thumbnails"`
	MergeVariables               map[string]any  `json:"merge_variables"`
	ExpectedDeliveryDate         time.Time       `json:"expected_delivery_date"`
	MailType                     MailType        `json:"mail_type"`
	DateCreated                  time.Time       `json:"date_created"`
	DateModified                 time.Time       `json:"date_modified"`
	SendDate                     time.Time       `json:"send_date"`
	Deleted                      *bool           `json:"deleted,omitempty"`
}

func (c Check) MarshalJSON() ([]byte, error) {
	type plain Check
	return encodeObject(ObjectCheck, plain(c))
}

func (c *Check) UnmarshalJSON(data []byte) error {
	type plain Check
	return decodeObject(data, ObjectCheck, (*plain)(c))
}

func (*Check) isEventBody() {}

// NewCheck is the input to CreateCheck.
type NewCheck struct {
	Description *string     `json:"description,omitempty"`
	To          SendAddress `json:"to"`
	From        SendAddress `json:"from"`
	// BankAccount is the id of a verified bank account.
	BankAccount string  `json:"bank_account"`
	Amount      Money   `json:"amount"`
	Memo        *string `json:"memo,omitempty"`
	CheckNumber *int    `json:"check_number,omitempty"`
	// Logo must be an Upload or a RemoteURL.
	Logo File `json:"logo,omitempty"`
	// Exactly one of Message and CheckBottom must be set.
	Message     *string `json:"message,omitempty"`
	CheckBottom File    `json:"check_bottom,omitempty"`
	Attachment  File    `json:"attachment,omitempty"`
	// MailType must be usps_first_class or ups_next_day_air.
	MailType MailType `json:"mail_type,omitempty"`
	SendDate *Date    `json:"send_date,omitempty"`
	Metadata Metadata `json:"metadata,omitempty"`
}

// Validate checks the request before it is sent.
func (c *NewCheck) Validate() error {
	if c == nil {
		return validationError("check is required")
	}
	if err := validateSendAddress("to", c.To); err != nil {
		return err
	}
	if err := validateSendAddress("from", c.From); err != nil {
		return err
	}
	if c.BankAccount == "" {
		return validationError("bank_account is required")
	}
	if c.Amount == 0 {
		return validationError("amount must be greater than zero")
	}
	if !isNilFile(c.Logo) {
		switch c.Logo.(type) {
		case Upload, *Upload, RemoteURL:
		default:
			return validationError("logo must be a file upload or a remote URL, got %T", c.Logo)
		}
	}
	if (c.Message != nil) == !isNilFile(c.CheckBottom) {
		return validationError("exactly one of message or check_bottom must be set")
	}
	if c.MailType == MailTypeUSPSStandard {
		return validationError("checks cannot be sent %s", MailTypeUSPSStandard)
	}
	return nil
}

// CreateCheck sends a check. Upload logos, check bottoms and attachments
// are sent as multipart parts.
func (c *Client) CreateCheck(ctx context.Context, check *NewCheck, opts ...RequestOption) (*Check, error) {
	if err := check.Validate(); err != nil {
		return nil, err
	}

	body := *check
	var files []formFile
	files = takeUpload(files, "logo", &body.Logo)
	files = takeUpload(files, "check_bottom", &body.CheckBottom)
	files = takeUpload(files, "attachment", &body.Attachment)

	var out Check
	if err := c.create(ctx, "/checks", &body, files, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetCheck retrieves a check.
func (c *Client) GetCheck(ctx context.Context, id string) (*Check, error) {
	path, err := resourcePath("/checks", id)
	if err != nil {
		return nil, err
	}
	var out Check
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelCheck cancels a check that has not been sent yet.
func (c *Client) CancelCheck(ctx context.Context, id string) (*Deletion, error) {
	path, err := resourcePath("/checks", id)
	if err != nil {
		return nil, err
	}
	var out Deletion
	if err := c.delete(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListChecks returns a page of checks. opts may be nil.
func (c *Client) ListChecks(ctx context.Context, opts *ListChecksOptions) (*List[Check], error) {
	var out List[Check]
	if err := c.get(ctx, "/checks", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
