package lob

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// EventTypeID names what happened in an Event.
type EventTypeID string

const (
	EventPostcardCreated              EventTypeID = "postcard.created"
	EventPostcardRenderedPDF          EventTypeID = "postcard.rendered_pdf"
	EventPostcardRenderedThumbnails   EventTypeID = "postcard.rendered_thumbnails"
	EventPostcardDeleted              EventTypeID = "postcard.deleted"
	EventPostcardMailed               EventTypeID = "postcard.mailed"
	EventPostcardInTransit            EventTypeID = "postcard.in_transit"
	EventPostcardInLocalArea          EventTypeID = "postcard.in_local_area"
	EventPostcardProcessedForDelivery EventTypeID = "postcard.processed_for_delivery"
	EventPostcardReRouted             EventTypeID = "postcard.re-routed"
	EventPostcardReturnedToSender     EventTypeID = "postcard.returned_to_sender"

	EventLetterCreated              EventTypeID = "letter.created"
	EventLetterRenderedPDF          EventTypeID = "letter.rendered_pdf"
	EventLetterRenderedThumbnails   EventTypeID = "letter.rendered_thumbnails"
	EventLetterDeleted              EventTypeID = "letter.deleted"
	EventLetterMailed               EventTypeID = "letter.mailed"
	EventLetterInTransit            EventTypeID = "letter.in_transit"
	EventLetterInLocalArea          EventTypeID = "letter.in_local_area"
	EventLetterProcessedForDelivery EventTypeID = "letter.processed_for_delivery"
	EventLetterReRouted             EventTypeID = "letter.re-routed"
	EventLetterReturnedToSender     EventTypeID = "letter.returned_to_sender"

	EventCheckCreated              EventTypeID = "check.created"
	EventCheckRenderedPDF          EventTypeID = "check.rendered_pdf"
	EventCheckRenderedThumbnails   EventTypeID = "check.rendered_thumbnails"
	EventCheckDeleted              EventTypeID = "check.deleted"
	EventCheckInTransit            EventTypeID = "check.in_transit"
	EventCheckInLocalArea          EventTypeID = "check.in_local_area"
	EventCheckProcessedForDelivery EventTypeID = "check.processed_for_delivery"
	EventCheckReRouted             EventTypeID = "check.re-routed"
	EventCheckReturnedToSender     EventTypeID = "check.returned_to_sender"

	EventAddressCreated EventTypeID = "address.created"
	EventAddressDeleted EventTypeID = "address.deleted"

	EventBankAccountCreated  EventTypeID = "bank_account.created"
	EventBankAccountDeleted  EventTypeID = "bank_account.deleted"
	EventBankAccountVerified EventTypeID = "bank_account.verified"
)

var eventTypeIDs = []EventTypeID{
	EventPostcardCreated, EventPostcardRenderedPDF, EventPostcardRenderedThumbnails, EventPostcardDeleted,
	EventPostcardMailed, EventPostcardInTransit, EventPostcardInLocalArea, EventPostcardProcessedForDelivery,
	EventPostcardReRouted, EventPostcardReturnedToSender,
	EventLetterCreated, EventLetterRenderedPDF, EventLetterRenderedThumbnails, EventLetterDeleted,
	EventLetterMailed, EventLetterInTransit, EventLetterInLocalArea, EventLetterProcessedForDelivery,
	EventLetterReRouted, EventLetterReturnedToSender,
	EventCheckCreated, EventCheckRenderedPDF, EventCheckRenderedThumbnails, EventCheckDeleted,
	EventCheckInTransit, EventCheckInLocalArea, EventCheckProcessedForDelivery, EventCheckReRouted,
	EventCheckReturnedToSender,
	EventAddressCreated, EventAddressDeleted,
	EventBankAccountCreated, EventBankAccountDeleted, EventBankAccountVerified,
}

func (e *EventTypeID) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, e, "event type", eventTypeIDs)
}

// IsDeletion reports whether the event announces a delete or cancel.
func (e EventTypeID) IsDeletion() bool {
	return strings.HasSuffix(string(e), ".deleted")
}

// EventType describes a kind of event.
type EventType struct {
	ID             EventTypeID `json:"id"`
	EnabledForTest bool        `json:"enabled_for_test"`
	Resource       Resource    `json:"resource"`
}

func (t EventType) MarshalJSON() ([]byte, error) {
	type plain EventType
	return encodeObject(ObjectEventType, plain(t))
}

func (t *EventType) UnmarshalJSON(data []byte) error {
	type plain EventType
	return decodeObject(data, ObjectEventType, (*plain)(t))
}

// EventBody is the resource an Event carries: *Address, *Postcard,
// *Letter, *Check, *BankAccount or *Deletion.
type EventBody interface {
	isEventBody()
}

// Event is a webhook notification.
type Event struct {
	ID          string
	Body        EventBody
	ReferenceID string
	EventType   EventType
	DateCreated time.Time
}

type eventFields struct {
	ID          string          `json:"id"`
	Body        json.RawMessage `json:"body"`
	ReferenceID string          `json:"reference_id"`
	EventType   EventType       `json:"event_type"`
	DateCreated time.Time       `json:"date_created"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(e.Body)
	if err != nil {
		return nil, err
	}
	return encodeObject(ObjectEvent, eventFields{
		ID:          e.ID,
		Body:        body,
		ReferenceID: e.ReferenceID,
		EventType:   e.EventType,
		DateCreated: e.DateCreated,
	})
}

// UnmarshalJSON decodes the body as the resource the event type declares.
// A *.deleted event whose body is not a full resource decodes as a
// *Deletion.
func (e *Event) UnmarshalJSON(data []byte) error {
	var fields eventFields
	if err := decodeObject(data, ObjectEvent, &fields); err != nil {
		return err
	}

	body, err := decodeEventBody(fields.EventType, fields.Body)
	if err != nil {
		return fmt.Errorf("event %s: %w", fields.ID, err)
	}

	*e = Event{
		ID:          fields.ID,
		Body:        body,
		ReferenceID: fields.ReferenceID,
		EventType:   fields.EventType,
		DateCreated: fields.DateCreated,
	}
	return nil
}

func decodeEventBody(t EventType, raw json.RawMessage) (EventBody, error) {
	var body EventBody
	switch t.Resource {
	case ResourcePostcards:
		body = new(Postcard)
	case ResourceLetters:
		body = new(Letter)
	case ResourceChecks:
		body = new(Check)
	case ResourceAddresses:
		body = new(Address)
	case ResourceBankAccounts:
		body = new(BankAccount)
	default:
		return nil, fmt.Errorf("unknown event resource %q", t.Resource)
	}

	err := json.Unmarshal(raw, body)
	if err == nil {
		return body, nil
	}
	if t.ID.IsDeletion() {
		var del Deletion
		if delErr := json.Unmarshal(raw, &del); delErr == nil && del.ID != "" {
			return &del, nil
		}
	}
	return nil, err
}
