// Package discovery answers UDP probes from clients on the local network so
// they can find the HTTP API without a configured address.
package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
)

// ProbeMessage is the exact datagram text a client sends to locate the
// service. Anything else is ignored without a reply.
const ProbeMessage = "DISCOVER_RETROFIT_API"

const responsePrefix = "RETROFIT_API "

// Responder is a long-lived UDP listener that replies to discovery probes
// with the service's base URL. It runs for the lifetime of the process;
// Close exists so tests can stop it.
type Responder struct {
	port     int
	httpPort int
	logger   *slog.Logger

	// resolveIP is called per probe so an address change between probes is
	// picked up without restarting.
	resolveIP func() string

	conn *net.UDPConn
}

func NewResponder(port, httpPort int, logger *slog.Logger) *Responder {
	return &Responder{
		port:      port,
		httpPort:  httpPort,
		logger:    logger,
		resolveIP: OutboundIP,
	}
}

// Listen binds the UDP socket on all interfaces.
func (r *Responder) Listen() error {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: r.port})
	if err != nil {
		return fmt.Errorf("failed to bind discovery socket: %w", err)
	}
	r.conn = conn
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (r *Responder) Addr() net.Addr {
	if r.conn == nil {
		return nil
	}
	return r.conn.LocalAddr()
}

// Serve answers probes until the socket is closed. Malformed datagrams are
// treated as non-matching input, not errors.
func (r *Responder) Serve() error {
	buf := make([]byte, 1024)
	for {
		n, addr, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			r.logger.Error("discovery read failed", "error", err)
			continue
		}

		if strings.TrimSpace(string(buf[:n])) != ProbeMessage {
			continue
		}

		reply := fmt.Sprintf("%shttp://%s:%d/", responsePrefix, r.resolveIP(), r.httpPort)
		if _, err := r.conn.WriteToUDP([]byte(reply), addr); err != nil {
			r.logger.Error("discovery reply failed", "addr", addr.String(), "error", err)
			continue
		}
		r.logger.Debug("discovery probe answered", "addr", addr.String(), "reply", reply)
	}
}

// ListenAndServe binds the socket and serves probes until the socket closes.
func (r *Responder) ListenAndServe() error {
	if err := r.Listen(); err != nil {
		return err
	}
	return r.Serve()
}

func (r *Responder) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

// OutboundIP returns the host's outbound-routable IPv4 address. Dialing a
// UDP socket sends nothing; the OS just picks the route, and the local
// endpoint of that route is the address clients can reach us on. Falls back
// to loopback when no route is available.
func OutboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer func() {
		if err := conn.Close(); err != nil {
			slog.Error("failed to close probe socket", "error", err)
		}
	}()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "127.0.0.1"
}
