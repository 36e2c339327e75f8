package filter

import (
	"time"

	"github.com/s0up4200/lobster/lob"
)

// Record is the view of a single Lob resource that filter expressions run against.
// Fields are exposed as top-level identifiers (MailType, DateCreated, Amount, ...).
type Record struct {
	ID       string
	Kind     lob.ObjectType
	Metadata lob.Metadata
	Fields   map[string]any

	// Value is the resource the record was built from.
	Value any
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func deleted(b *bool) bool {
	return b != nil && *b
}

func dateTime(d lob.Date) time.Time {
	if d.IsZero() {
		return time.Time{}
	}
	return d.Time(time.UTC)
}

// addressFields flattens the parts of an address that are useful in expressions.
func addressFields(prefix string, a *lob.Address, fields map[string]any) {
	if a == nil {
		a = &lob.Address{}
	}
	fields[prefix+"Name"] = deref(a.Name)
	fields[prefix+"Company"] = deref(a.Company)
	fields[prefix+"City"] = deref(a.AddressCity)
	fields[prefix+"State"] = deref(a.AddressState)
	fields[prefix+"Zip"] = deref(a.AddressZip)
	fields[prefix+"Country"] = deref(a.AddressCountry)
}

// AddressRecord builds a Record from a saved address.
func AddressRecord(a *lob.Address) Record {
	fields := make(map[string]any, 16)
	fields["ID"] = a.ID
	fields["Description"] = deref(a.Description)
	fields["AddressLine1"] = a.AddressLine1
	fields["AddressLine2"] = deref(a.AddressLine2)
	fields["Email"] = deref(a.Email)
	fields["Phone"] = deref(a.Phone)
	fields["DateCreated"] = a.DateCreated
	fields["DateModified"] = a.DateModified
	fields["Deleted"] = deleted(a.Deleted)
	addressFields("", a, fields)

	return Record{ID: a.ID, Kind: lob.ObjectAddress, Metadata: a.Metadata, Fields: fields, Value: a}
}

type mailPiece struct {
	id             string
	description    *string
	to             *lob.Address
	from           *lob.Address
	mailType       lob.MailType
	carrier        string
	trackingEvents int
	expected       time.Time
	created        time.Time
	modified       time.Time
	sendDate       time.Time
	deleted        *bool
}

func (m mailPiece) fields(extra int) map[string]any {
	fields := make(map[string]any, 24+extra)
	fields["ID"] = m.id
	fields["Description"] = deref(m.description)
	fields["MailType"] = string(m.mailType)
	fields["Carrier"] = m.carrier
	fields["TrackingEvents"] = m.trackingEvents
	fields["ExpectedDeliveryDate"] = m.expected
	fields["DateCreated"] = m.created
	fields["DateModified"] = m.modified
	fields["SendDate"] = m.sendDate
	fields["Deleted"] = deleted(m.deleted)
	addressFields("To", m.to, fields)
	addressFields("From", m.from, fields)
	return fields
}

// PostcardRecord builds a Record from a postcard.
func PostcardRecord(p *lob.Postcard) Record {
	fields := mailPiece{
		id:             p.ID,
		description:    p.Description,
		to:             &p.To,
		from:           p.From,
		mailType:       p.MailType,
		carrier:        p.Carrier,
		trackingEvents: len(p.TrackingEvents),
		expected:       dateTime(p.ExpectedDeliveryDate),
		created:        p.DateCreated,
		modified:       p.DateModified,
		sendDate:       p.SendDate,
		deleted:        p.Deleted,
	}.fields(1)
	fields["Size"] = string(p.Size)

	return Record{ID: p.ID, Kind: lob.ObjectPostcard, Metadata: p.Metadata, Fields: fields, Value: p}
}

// LetterRecord builds a Record from a letter.
func LetterRecord(l *lob.Letter) Record {
	fields := mailPiece{
		id:             l.ID,
		description:    l.Description,
		to:             &l.To,
		from:           l.From,
		mailType:       l.MailType,
		carrier:        l.Carrier,
		trackingEvents: len(l.TrackingEvents),
		expected:       dateTime(l.ExpectedDeliveryDate),
		created:        l.DateCreated,
		modified:       l.DateModified,
		sendDate:       l.SendDate,
		deleted:        l.Deleted,
	}.fields(6)
	fields["Color"] = l.Color
	fields["DoubleSided"] = l.DoubleSided
	fields["ReturnEnvelope"] = l.ReturnEnvelope
	fields["AddressPlacement"] = string(l.AddressPlacement)
	fields["TrackingNumber"] = deref(l.TrackingNumber)
	fields["ExtraService"] = ""
	if l.ExtraService != nil {
		fields["ExtraService"] = string(*l.ExtraService)
	}

	return Record{ID: l.ID, Kind: lob.ObjectLetter, Metadata: l.Metadata, Fields: fields, Value: l}
}

// CheckRecord builds a Record from a check. Amount is exposed in dollars,
// AmountCents as an exact integer.
func CheckRecord(c *lob.Check) Record {
	fields := mailPiece{
		id:             c.ID,
		description:    c.Description,
		to:             &c.To,
		from:           &c.From,
		mailType:       c.MailType,
		carrier:        c.Carrier,
		trackingEvents: len(c.TrackingEvents),
		expected:       c.ExpectedDeliveryDate,
		created:        c.DateCreated,
		modified:       c.DateModified,
		sendDate:       c.SendDate,
		deleted:        c.Deleted,
	}.fields(6)
	fields["Amount"] = c.Amount.Decimal().InexactFloat64()
	fields["AmountCents"] = int64(c.Amount.Cents())
	fields["CheckNumber"] = c.CheckNumber
	fields["Memo"] = deref(c.Memo)
	fields["BankAccount"] = c.BankAccount.ID
	fields["TrackingNumber"] = deref(c.TrackingNumber)

	return Record{ID: c.ID, Kind: lob.ObjectCheck, Metadata: c.Metadata, Fields: fields, Value: c}
}

// BankAccountRecord builds a Record from a bank account.
func BankAccountRecord(b *lob.BankAccount) Record {
	fields := make(map[string]any, 12)
	fields["ID"] = b.ID
	fields["Description"] = deref(b.Description)
	fields["BankName"] = b.BankName
	fields["AccountType"] = string(b.AccountType)
	fields["RoutingNumber"] = b.RoutingNumber
	fields["Signatory"] = b.Signatory
	fields["Verified"] = b.Verified
	fields["DateCreated"] = b.DateCreated
	fields["DateModified"] = b.DateModified
	fields["Deleted"] = deleted(b.Deleted)

	return Record{ID: b.ID, Kind: lob.ObjectBankAccount, Metadata: b.Metadata, Fields: fields, Value: b}
}

// Records builds one Record per item. The records point into items.
func Records[T any](items []T, build func(*T) Record) []Record {
	records := make([]Record, len(items))
	for i := range items {
		records[i] = build(&items[i])
	}
	return records
}
