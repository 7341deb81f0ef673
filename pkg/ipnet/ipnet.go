// Package ipnet provides the scalar types used by the intent and install-config
// schemas: IPv4 addresses, IPv4 networks and absolute URLs.
package ipnet

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// IPv4Address is a single IPv4 address. The zero value is unset.
type IPv4Address struct {
	addr netip.Addr
}

// ParseIPv4Address parses a dotted-quad IPv4 address.
func ParseIPv4Address(s string) (*IPv4Address, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return nil, err
	}
	if !addr.Is4() {
		return nil, fmt.Errorf("%q is not an IPv4 address", s)
	}
	return &IPv4Address{addr: addr}, nil
}

// MustParseIPv4Address parses s and panics if it is not a valid IPv4 address.
func MustParseIPv4Address(s string) *IPv4Address {
	a, err := ParseIPv4Address(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether the address is unset.
func (a IPv4Address) IsZero() bool {
	return !a.addr.IsValid()
}

func (a IPv4Address) String() string {
	if a.IsZero() {
		return ""
	}
	return a.addr.String()
}

// IPv4Network is an IPv4 network in CIDR notation. The zero value is unset.
type IPv4Network struct {
	prefix netip.Prefix
}

// ParseIPv4Network parses an IPv4 network such as 10.0.0.0/16. An address without
// a prefix length is a /32 network. Addresses with host bits set are rejected.
func ParseIPv4Network(s string) (*IPv4Network, error) {
	if !strings.Contains(s, "/") {
		s += "/32"
	}
	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return nil, err
	}
	if !prefix.Addr().Is4() {
		return nil, fmt.Errorf("%q is not an IPv4 network", s)
	}
	if prefix.Masked() != prefix {
		return nil, fmt.Errorf("%q has host bits set", s)
	}
	return &IPv4Network{prefix: prefix}, nil
}

// MustParseIPv4Network parses s and panics if it is not a valid IPv4 network.
func MustParseIPv4Network(s string) *IPv4Network {
	n, err := ParseIPv4Network(s)
	if err != nil {
		panic(err)
	}
	return n
}

// IsZero reports whether the network is unset.
func (n IPv4Network) IsZero() bool {
	return !n.prefix.IsValid()
}

func (n IPv4Network) String() string {
	if n.IsZero() {
		return ""
	}
	return n.prefix.String()
}

// URL is an absolute URL with both a scheme and a host. The zero value is unset.
type URL struct {
	u *url.URL
}

// ParseURL parses an absolute URL such as ipmi://192.168.111.1:6230 or
// qemu+ssh://root@host/system.
func ParseURL(s string) (*URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("%q has no scheme", s)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%q has no host", s)
	}
	return &URL{u: u}, nil
}

// MustParseURL parses s and panics if it is not a valid absolute URL.
func MustParseURL(s string) *URL {
	u, err := ParseURL(s)
	if err != nil {
		panic(err)
	}
	return u
}

// IsZero reports whether the URL is unset.
func (u URL) IsZero() bool {
	return u.u == nil
}

func (u URL) String() string {
	if u.IsZero() {
		return ""
	}
	return u.u.String()
}
