package lob

import (
	"context"
	"time"
)

// Postcard is a postcard mail piece.
type Postcard struct {
	ID                     string          `json:"id"`
	Description            *string         `json:"description"`
	Metadata               Metadata        `json:"metadata"`
	To                     Address         `json:"to"`
	From                   *Address        `json:"from"`
	URL                    string          `json:"url"`
	FrontTemplateID        *string         `json:"front_template_id"`
	BackTemplateID         *string         `json:"back_template_id"`
	FrontTemplateVersionID *string         `json:"front_template_version_id"`
	BackTemplateVersionID  *string         `json:"back_template_version_id"`
	Carrier                string          `json:"carrier"`
	TrackingEvents         []TrackingEvent `json:"tracking_events"`
	Thumbnails             []Thumbnails    `json:"thumbnails"`
	MergeVariables         map[string]any  `json:"merge_variables"`
	Size                   PostcardSize    `json:"size"`
	MailType               MailType        `json:"mail_type"`
	ExpectedDeliveryDate   Date            `json:"expected_delivery_date"`
	DateCreated            time.Time       `json:"date_created"`
	DateModified           time.Time       `json:"date_modified"`
	SendDate               time.Time       `json:"send_date"`
	Deleted                *bool           `json:"deleted,omitempty"`
}

func (p Postcard) MarshalJSON() ([]byte, error) {
	type plain Postcard
	return encodeObject(ObjectPostcard, plain(p))
}

func (p *Postcard) UnmarshalJSON(data []byte) error {
	type plain Postcard
	return decodeObject(data, ObjectPostcard, (*plain)(p))
}

func (*Postcard) isEventBody() {}

// NewPostcard is the input to CreatePostcard.
type NewPostcard struct {
	Description    *string        `json:"description,omitempty"`
	To             SendAddress    `json:"to"`
	From           SendAddress    `json:"from,omitempty"`
	Front          File           `json:"front,omitempty"`
	Back           File           `json:"back,omitempty"`
	MergeVariables map[string]any `json:"merge_variables,omitempty"`
	Size           PostcardSize   `json:"size,omitempty"`
	MailType       MailType       `json:"mail_type,omitempty"`
	SendDate       *time.Time     `json:"send_date,omitempty"`
	Metadata       Metadata       `json:"metadata,omitempty"`
}

// Validate checks the request before it is sent.
func (p *NewPostcard) Validate() error {
	if p == nil {
		return validationError("postcard is required")
	}
	if err := validateSendAddress("to", p.To); err != nil {
		return err
	}
	if isNilFile(p.Front) {
		return validationError("front is required")
	}
	if isNilFile(p.Back) {
		return validationError("back is required")
	}
	return nil
}

// CreatePostcard sends a postcard. Upload fronts and backs are sent as
// multipart parts.
func (c *Client) CreatePostcard(ctx context.Context, postcard *NewPostcard, opts ...RequestOption) (*Postcard, error) {
	if err := postcard.Validate(); err != nil {
		return nil, err
	}

	body := *postcard
	var files []formFile
	files = takeUpload(files, "front", &body.Front)
	files = takeUpload(files, "back", &body.Back)

	var out Postcard
	if err := c.create(ctx, "/postcards", &body, files, &out, opts); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetPostcard retrieves a postcard.
func (c *Client) GetPostcard(ctx context.Context, id string) (*Postcard, error) {
	path, err := resourcePath("/postcards", id)
	if err != nil {
		return nil, err
	}
	var out Postcard
	if err := c.get(ctx, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelPostcard cancels a postcard that has not been sent yet.
func (c *Client) CancelPostcard(ctx context.Context, id string) (*Deletion, error) {
	path, err := resourcePath("/postcards", id)
	if err != nil {
		return nil, err
	}
	var out Deletion
	if err := c.delete(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPostcards returns a page of postcards. opts may be nil.
func (c *Client) ListPostcards(ctx context.Context, opts *ListPostcardsOptions) (*List[Postcard], error) {
	var out List[Postcard]
	if err := c.get(ctx, "/postcards", opts, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
