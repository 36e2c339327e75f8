package lob

import "time"

// TrackingEvent is a carrier scan of a mail piece.
type TrackingEvent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     *string   `json:"location"`
	Time         time.Time `json:"time"`
	DateCreated  time.Time `json:"date_created"`
	DateModified time.Time `json:"date_modified"`
}

func (t TrackingEvent) MarshalJSON() ([]byte, error) {
	type plain TrackingEvent
	return encodeObject(ObjectTrackingEvent, plain(t))
}

func (t *TrackingEvent) UnmarshalJSON(data []byte) error {
	type plain TrackingEvent
	return decodeObject(data, ObjectTrackingEvent, (*plain)(t))
}

// Thumbnails links to rendered previews of one page of a mail piece.
type Thumbnails struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
	Small  string `json:"small"`
}

// CustomEnvelope is a letter envelope uploaded ahead of time.
type CustomEnvelope struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (e CustomEnvelope) MarshalJSON() ([]byte, error) {
	type plain CustomEnvelope
	return encodeObject(ObjectEnvelope, plain(e))
}

func (e *CustomEnvelope) UnmarshalJSON(data []byte) error {
	type plain CustomEnvelope
	return decodeObject(data, ObjectEnvelope, (*plain)(e))
}
