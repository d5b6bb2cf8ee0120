package kademlia

import "github.com/goodnatureofminers/kadchain/internal/identity"

// AddResult tells what Bucket.Add did with a contact.
type AddResult int

const (
	// Appended means the contact was new and there was room.
	Appended AddResult = iota
	// Refreshed means the contact was already present and moved to the tail.
	Refreshed
	// Dropped means the bucket was full and the contact was ignored.
	Dropped
)

func (r AddResult) String() string {
	switch r {
	case Appended:
		return "appended"
	case Refreshed:
		return "refreshed"
	case Dropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Bucket holds up to capacity contacts ordered by recency, most recently confirmed last.
// A Bucket is not safe for concurrent use; RoutingTable serializes access.
type Bucket struct {
	contacts []identity.Contact
	capacity int
}

// NewBucket returns an empty bucket holding at most capacity contacts.
func NewBucket(capacity int) *Bucket {
	return &Bucket{
		contacts: make([]identity.Contact, 0, capacity),
		capacity: capacity,
	}
}

// Add refreshes a known contact, appends a new one if there is room, otherwise drops it.
// The least-recently-seen head is never pinged or evicted.
func (b *Bucket) Add(contact identity.Contact) AddResult {
	if i := b.indexOf(contact.NodeID); i >= 0 {
		existing := b.contacts[i]
		b.contacts = append(b.contacts[:i], b.contacts[i+1:]...)
		b.contacts = append(b.contacts, existing)
		return Refreshed
	}
	if len(b.contacts) < b.capacity {
		b.contacts = append(b.contacts, contact)
		return Appended
	}
	return Dropped
}

// Contacts returns a copy of the bucket contents, head first.
func (b *Bucket) Contacts() []identity.Contact {
	out := make([]identity.Contact, len(b.contacts))
	copy(out, b.contacts)
	return out
}

// Contact looks a contact up by id.
func (b *Bucket) Contact(id identity.NodeID) (identity.Contact, bool) {
	if i := b.indexOf(id); i >= 0 {
		return b.contacts[i], true
	}
	return identity.Contact{}, false
}

// Has reports whether id is stored.
func (b *Bucket) Has(id identity.NodeID) bool {
	return b.indexOf(id) >= 0
}

// Len is the number of stored contacts.
func (b *Bucket) Len() int {
	return len(b.contacts)
}

func (b *Bucket) indexOf(id identity.NodeID) int {
	for i := range b.contacts {
		if b.contacts[i].NodeID == id {
			return i
		}
	}
	return -1
}
