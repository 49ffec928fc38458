package web

import (
	"net"
	"net/http"
	"strings"
)

// KeyExtractor builds the function deriving a device's opaque
// recognition key from its network origin. The key is the transport
// peer address with the port stripped, because the port changes on
// every reconnect while the address does not.
//
// Forwarding headers are client-supplied and therefore forgeable; a
// forged one would let a device assume another player's identity. They
// are honored only when the server is explicitly configured as sitting
// behind a trusted reverse proxy.
func KeyExtractor(trustProxy bool) func(*http.Request) string {
	return func(r *http.Request) string {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !trustProxy {
			return host
		}

		if ip := r.Header.Get("X-Real-IP"); ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			// First hop is the originating client
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if net.ParseIP(first) != nil {
				return first
			}
		}
		return host
	}
}

// LocalIP returns the machine's outbound LAN address, used to build the
// join URL shown on the shared display. The dial never actually sends
// anything.
func LocalIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return "127.0.0.1"
	}
	return addr.IP.String()
}
