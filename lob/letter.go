package lob

import (
	"context"
	"time"
)

// Letter is a letter mail piece.
type Letter struct {
	ID                   string                 `json:"id"`
	Description          *string                `json:"description"`
	Metadata             Metadata               `json:"metadata"`
	To                   Address                `json:"to"`
	From                 *Address               `json:"from"`
	Color                bool                   `json:"color"`
	DoubleSided          bool                   `json:"double_sided"`
	AddressPlacement     LetterAddressPlacement `json:"address_placement"`
	ReturnEnvelope       bool                   `json:"return_envelope"`
	PerforatedPage       *int                   `json:"perforated_page"`
	CustomEnvelope       *CustomEnvelope        `json:"custom_envelope"`
	ExtraService         *ExtraService          `json:"extra_service"`
	MailType             MailType               `json:"mail_type"`
	URL                  string                 `json:"url"`
	MergeVariables       map[string]any         `json:"merge_variables"`
	TemplateID           *string                `json:"template_id"`
	TemplateVersionID    *string                `json:"template_version_id"`
	Carrier              string                 `json:"carrier"`
	TrackingNumber       *string                `json:"tracking_number"`
	TrackingEvents       []TrackingEvent        `json:"tracking_events"`
	Thumbnails           []Thumbnails           `json:"thumbnails"`
	ExpectedDeliveryDate Date                   `json:"expected_delivery_date"`
	DateCreated          time.Time              `json:"date_created"`
	DateModified         time.Time              `json:"date_modified"`
	SendDate             time.Time              `json:"send_date"`
	Deleted              *bool                  `json:"deleted,omitempty"`
}

func (l Letter) MarshalJSON() ([]byte, error) {
	type plain Letter
	return encodeObject(ObjectLetter, plain(l))
}

func (l *Letter) UnmarshalJSON(data []byte) error {
	type plain Letter
	return decodeObject(data, ObjectLetter, (*plain)(l))
}

func (*Letter) isEventBody() {}

// NewLetter is the input to CreateLetter.
type NewLetter struct {
	Description *string     `json:"description,omitempty"`
	To          SendAddress `json:"to"`
	From        SendAddress `json:"from"`
	// Color selects color printing; the API requires it explicitly.
	Color            bool                   `json:"color"`
	File             File                   `json:"file,omitempty"`
	MergeVariables   map[string]any         `json:"merge_variables,omitempty"`
	DoubleSided      *bool                  `json:"double_sided,omitempty"`
	AddressPlacement LetterAddressPlacement `json:"address_placement,omitempty"`
	ReturnEnvelope   *bool                  `json:"return_envelope,omitempty"`
	// CustomEnvelope is the id of an uploaded envelope.
	CustomEnvelope *string      `json:"custom_envelope,omitempty"`
	MailType       MailType     `json:"mail_type,omitempty"`
	ExtraService   ExtraService `json:"extra_service,omitempty"`
	SendDate       *time.Time   `json:"send_date,omitempty"`
	// PerforatedPage is the 1-based page to perforate; it requires a
	// return envelope.
	PerforatedPage *uint32  `json:"perforated_page,omitempty"`
	Metadata       Metadata `json:"metadata,omitempty"`
}

// Validate checks the request before it is sent.
func (l *NewLetter) Validate() error {
	if l == nil {
		return validationError("letter is required")
	}
	if err := validateSendAddress("to", l.To); err != nil {
		return err
	}
	if err := validateSendAddress("from", l.From); err != nil {
		return err
	}
	if isNilFile(l.File) {
		return validationError("file is required")
	}
	if l.PerforatedPage != nil && (l.ReturnEnvelope == nil || !*l.ReturnEnvelope) {
		return validationError("perforated_page requires return_envelope")
	}
	return nil
}

// CreateLetter sends a letter. An Upload file is sent as a multipart part.
func (c *Client) CreateLetter(ctx context.Context, letter *NewLetter, opts ...RequestOption) (*Letter, error) {
	if err := letter.Validate(); err != nil {
		return nil, err
	}

	body := *letter
	files := takeUpload(nil, "file", &body.File)

	var out Letter
	if err := c.create(ctx, "/letters", &body, files, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLetter retrieves a letter.
func (c *Client) GetLetter(ctx context.Context, id string) (*Letter, error) {
	path, err := resourcePath("/letters", id)
	if err != nil {
		return nil, err
	}
	var out Letter
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelLetter cancels a letter that has not been sent yet.
func (c *Client) CancelLetter(ctx context.Context, id string) (*Deletion, error) {
	path, err := resourcePath("/letters", id)
	if err != nil {
		return nil, err
	}
	var out Deletion
	if err := c.delete(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListLetters returns a page of letters. opts may be nil.
func (c *Client) ListLetters(ctx context.Context, opts *ListLettersOptions) (*List[Letter], error) {
	var out List[Letter]
	if err := c.get(ctx, "/letters", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
