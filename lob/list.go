package lob

import "net/url"

// List is a page of resources.
type List[T any] struct {
	Data        []T     `json:"data"`
	NextURL     *string `json:"next_url"`
	PreviousURL *string `json:"previous_url"`
	Count       int     `json:"count"`
	// TotalCount is set only when IncludeTotalCount was requested.
	TotalCount *int `json:"total_count,omitempty"`
}

// listFields mirrors List without its JSON methods.
type listFields[T any] struct {
	Data        []T     `json:"data"`
	NextURL     *string `json:"next_url"`
	PreviousURL *string `json:"previous_url"`
	Count       int     `json:"count"`
	TotalCount  *int    `json:"total_count,omitempty"`
}

func (l List[T]) MarshalJSON() ([]byte, error) {
	return encodeObject(ObjectList, listFields[T](l))
}

func (l *List[T]) UnmarshalJSON(data []byte) error {
	var fields listFields[T]
	if err := decodeObject(data, ObjectList, &fields); err != nil {
		return err
	}
	*l = List[T](fields)
	return nil
}

// NextCursor returns the after cursor of the next page, or "" on the last
// page.
func (l *List[T]) NextCursor() string {
	return cursorFrom(l.NextURL, "after")
}

// PreviousCursor returns the before cursor of the previous page, or "" on
// the first page.
func (l *List[T]) PreviousCursor() string {
	return cursorFrom(l.PreviousURL, "before")
}

func cursorFrom(raw *string, key string) string {
	if raw == nil || *raw == "" {
		return ""
	}
	u, err := url.Parse(*raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}

// Deletion is returned by delete and cancel operations, and is the body of
// *.deleted events.
type Deletion struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (Deletion) isEventBody() {}
