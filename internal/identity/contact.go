package identity

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/goodnatureofminers/kadchain/pkg/safe"
)

// Contact is how a peer is reached. Two contacts are the same peer iff their NodeIDs match.
type Contact struct {
	NodeID  NodeID `json:"nodeId"`
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// Equal compares contacts by node id only.
func (c Contact) Equal(other Contact) bool {
	return c.NodeID == other.NodeID
}

// HostPort joins address and port for dialing.
func (c Contact) HostPort() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

func (c Contact) String() string {
	return fmt.Sprintf("%s@%s", c.NodeID, c.HostPort())
}

// Validate checks the port range and that an address is present.
func (c Contact) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("contact %s: empty address", c.NodeID)
	}
	if _, err := safe.Uint16(c.Port); err != nil {
		return fmt.Errorf("contact %s: port: %w", c.NodeID, err)
	}
	return nil
}

// ParseContact reads "<hexid>@host:port". The id part is optional; a missing id leaves a zero
// NodeID and hasID is false.
func ParseContact(s string) (c Contact, hasID bool, err error) {
	hostPort := s
	if at := strings.LastIndex(s, "@"); at >= 0 {
		id, err := ParseNodeID(s[:at])
		if err != nil {
			return Contact{}, false, err
		}
		c.NodeID = id
		hasID = true
		hostPort = s[at+1:]
	}

	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		return Contact{}, false, fmt.Errorf("parse contact %q: %w", s, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Contact{}, false, fmt.Errorf("parse contact %q port: %w", s, err)
	}
	c.Address = host
	c.Port = port
	if err := c.Validate(); err != nil {
		return Contact{}, false, err
	}
	return c, hasID, nil
}
