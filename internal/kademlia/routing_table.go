package kademlia

import (
	"sort"
	"sync"

	"github.com/goodnatureofminers/kadchain/internal/identity"
	"go.uber.org/zap"
)

// RoutingTable keeps one Bucket per possible common-prefix length with the owner.
type RoutingTable struct {
	self    identity.NodeID
	k       int
	logger  *zap.Logger
	mu      sync.RWMutex
	buckets [identity.IDBits]*Bucket

	observersMu sync.RWMutex
	onAdded     []func(identity.Contact)
}

// NewRoutingTable creates a table owned by self with buckets of capacity k.
// A non-positive k means the default bucket size.
func NewRoutingTable(self identity.NodeID, k int, logger *zap.Logger) *RoutingTable {
	if k <= 0 {
		k = defaultBucketSize
	}
	rt := &RoutingTable{
		self:   self,
		k:      k,
		logger: logger.Named("routingTable"),
	}
	for i := range rt.buckets {
		rt.buckets[i] = NewBucket(k)
	}
	return rt
}

// Self is the owner's id.
func (rt *RoutingTable) Self() identity.NodeID {
	return rt.self
}

// OnContactAdded subscribes fn to contacts newly stored in the table.
// fn runs after the table lock is released.
func (rt *RoutingTable) OnContactAdded(fn func(identity.Contact)) {
	rt.observersMu.Lock()
	defer rt.observersMu.Unlock()
	rt.onAdded = append(rt.onAdded, fn)
}

// AddContact stores contact in the bucket for its prefix length with the owner.
// Self, out-of-range indices and already-known contacts are no-ops, as is a full bucket.
// It reports whether the contact was newly stored.
func (rt *RoutingTable) AddContact(contact identity.Contact) bool {
	if contact.NodeID == rt.self {
		return false
	}
	index := identity.CommonPrefixLength(rt.self, contact.NodeID)
	if index < 0 || index >= len(rt.buckets) {
		return false
	}

	rt.mu.Lock()
	bucket := rt.buckets[index]
	if bucket.Has(contact.NodeID) {
		rt.mu.Unlock()
		return false
	}
	result := bucket.Add(contact)
	rt.mu.Unlock()

	if result == Dropped {
		rt.logger.Debug("bucket full, contact dropped",
			zap.Int("bucket", index),
			zap.Stringer("contact", contact))
		return false
	}

	rt.observersMu.RLock()
	observers := rt.onAdded
	rt.observersMu.RUnlock()
	for _, fn := range observers {
		fn(contact)
	}
	return true
}

// FindClosest returns up to count contacts sorted by XOR distance to target.
func (rt *RoutingTable) FindClosest(target identity.NodeID, count int) []identity.Contact {
	contacts := rt.AllContacts()
	sort.Slice(contacts, func(i, j int) bool {
		return identity.CompareDistance(
			identity.Xor(contacts[i].NodeID, target),
			identity.Xor(contacts[j].NodeID, target),
		) < 0
	})
	if count >= 0 && len(contacts) > count {
		contacts = contacts[:count]
	}
	return contacts
}

// AllContacts is the union of every bucket, unsorted.
func (rt *RoutingTable) AllContacts() []identity.Contact {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	var out []identity.Contact
	for _, b := range rt.buckets {
		out = append(out, b.contacts...)
	}
	return out
}

// Contact looks up a stored contact by id.
func (rt *RoutingTable) Contact(id identity.NodeID) (identity.Contact, bool) {
	index := identity.CommonPrefixLength(rt.self, id)
	if index >= len(rt.buckets) {
		return identity.Contact{}, false
	}
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	return rt.buckets[index].Contact(id)
}

// Len is the number of stored contacts.
func (rt *RoutingTable) Len() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	n := 0
	for _, b := range rt.buckets {
		n += b.Len()
	}
	return n
}
