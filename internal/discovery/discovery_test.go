package discovery

import (
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startResponder(t *testing.T) *Responder {
	t.Helper()
	r := NewResponder(0, 5000, slog.Default())
	r.resolveIP = func() string { return "192.168.1.50" }
	require.NoError(t, r.Listen())
	t.Cleanup(func() { _ = r.Close() })
	go func() { _ = r.Serve() }()
	return r
}

func dialResponder(t *testing.T, r *Responder) *net.UDPConn {
	t.Helper()
	conn, err := net.DialUDP("udp", nil, r.Addr().(*net.UDPAddr))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestResponderAnswersProbe(t *testing.T) {
	r := startResponder(t)
	conn := dialResponder(t, r)

	_, err := conn.Write([]byte(ProbeMessage))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "RETROFIT_API http://192.168.1.50:5000/", string(buf[:n]))
}

func TestResponderTrimsProbeWhitespace(t *testing.T) {
	r := startResponder(t)
	conn := dialResponder(t, r)

	_, err := conn.Write([]byte(ProbeMessage + "\n"))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 256)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "RETROFIT_API http://192.168.1.50:5000/", string(buf[:n]))
}

func TestResponderIgnoresOtherDatagrams(t *testing.T) {
	r := startResponder(t)
	conn := dialResponder(t, r)

	for _, probe := range [][]byte{
		[]byte("HELLO"),
		[]byte("discover_retrofit_api"),
		{0xFF, 0xFE, 0x00, 0x01}, // not valid UTF-8 text
	} {
		_, err := conn.Write(probe)
		require.NoError(t, err)
	}

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	buf := make([]byte, 256)
	_, err := conn.Read(buf)
	require.Error(t, err)
	var nerr net.Error
	require.ErrorAs(t, err, &nerr)
	assert.True(t, nerr.Timeout())
}

func TestResponderAnswersEachProbeOnce(t *testing.T) {
	r := startResponder(t)
	conn := dialResponder(t, r)

	_, err := conn.Write([]byte(ProbeMessage))
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 256)
	_, err = conn.Read(buf)
	require.NoError(t, err)

	// No second reply to a single probe.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(300*time.Millisecond)))
	_, err = conn.Read(buf)
	require.Error(t, err)
}

func TestOutboundIPReturnsParsableAddress(t *testing.T) {
	// Whatever the environment, the heuristic must produce some IP text,
	// falling back to loopback when no route exists.
	ip := OutboundIP()
	assert.NotEmpty(t, ip)
	assert.NotNil(t, net.ParseIP(ip))
}
