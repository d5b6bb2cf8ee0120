package kademlia

import (
	"sort"

	"github.com/goodnatureofminers/kadchain/internal/identity"
)

// lookupState is the candidate set of one iterative lookup.
type lookupState struct {
	target     identity.NodeID
	candidates []identity.Contact
	known      map[identity.NodeID]struct{}
	queried    map[identity.NodeID]struct{}
	rounds     int
}

func newLookupState(self, target identity.NodeID, seed []identity.Contact) *lookupState {
	s := &lookupState{
		target:  target,
		known:   map[identity.NodeID]struct{}{self: {}},
		queried: map[identity.NodeID]struct{}{self: {}},
	}
	s.merge(seed)
	return s
}

// next returns the candidates not yet queried and marks them queried.
func (s *lookupState) next() []identity.Contact {
	var out []identity.Contact
	for _, c := range s.candidates {
		if _, ok := s.queried[c.NodeID]; ok {
			continue
		}
		s.queried[c.NodeID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// merge adds contacts never seen during this lookup and reports whether there were any.
func (s *lookupState) merge(found []identity.Contact) bool {
	progress := false
	for _, c := range found {
		if _, ok := s.known[c.NodeID]; ok {
			continue
		}
		s.known[c.NodeID] = struct{}{}
		s.candidates = append(s.candidates, c)
		progress = true
	}
	if progress {
		sort.SliceStable(s.candidates, func(i, j int) bool {
			return identity.CompareDistance(
				identity.Xor(s.candidates[i].NodeID, s.target),
				identity.Xor(s.candidates[j].NodeID, s.target),
			) < 0
		})
	}
	return progress
}
