package dialer

import (
	"encoding/binary"
	"io"
	"net"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// socksLogin is one authenticated SOCKS5 session seen by the fake proxy.
type socksLogin struct {
	Username string
	Password string
	Target   string
}

// fakeSOCKS5 is a minimal SOCKS5 proxy supporting the no-auth and username/password methods.
// It records every session and relays CONNECT requests to the requested target.
type fakeSOCKS5 struct {
	listener net.Listener
	mu       sync.Mutex
	logins   []socksLogin
	wg       sync.WaitGroup
}

func newFakeSOCKS5(t *testing.T) *fakeSOCKS5 {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := &fakeSOCKS5{listener: ln}
	s.wg.Add(1)
	go s.serve()

	t.Cleanup(func() {
		_ = ln.Close()
		s.wg.Wait()
	})
	return s
}

func (s *fakeSOCKS5) host() string {
	return s.listener.Addr().(*net.TCPAddr).IP.String()
}

func (s *fakeSOCKS5) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSOCKS5) sessions() []socksLogin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]socksLogin(nil), s.logins...)
}

func (s *fakeSOCKS5) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { _ = conn.Close() }()
			s.handle(conn)
		}()
	}
}

func (s *fakeSOCKS5) handle(conn net.Conn) {
	// Greeting: VER NMETHODS METHODS...
	head := make([]byte, 2)
	if _, err := io.ReadFull(conn, head); err != nil {
		return
	}
	methods := make([]byte, head[1])
	if _, err := io.ReadFull(conn, methods); err != nil {
		return
	}

	var login socksLogin
	if slices.Contains(methods, 0x02) {
		if _, err := conn.Write([]byte{0x05, 0x02}); err != nil {
			return
		}
		user, pass, err := readUserPass(conn)
		if err != nil {
			return
		}
		login.Username, login.Password = user, pass
		if _, err := conn.Write([]byte{0x01, 0x00}); err != nil {
			return
		}
	} else if _, err := conn.Write([]byte{0x05, 0x00}); err != nil {
		return
	}

	// Request: VER CMD RSV ATYP DST.ADDR DST.PORT
	req := make([]byte, 4)
	if _, err := io.ReadFull(conn, req); err != nil {
		return
	}
	host, err := readAddr(conn, req[3])
	if err != nil {
		return
	}
	portBuf := make([]byte, 2)
	if _, err := io.ReadFull(conn, portBuf); err != nil {
		return
	}
	login.Target = net.JoinHostPort(host, strconv.Itoa(int(binary.BigEndian.Uint16(portBuf))))

	s.mu.Lock()
	s.logins = append(s.logins, login)
	s.mu.Unlock()

	target, err := net.Dial("tcp", login.Target)
	if err != nil {
		_, _ = conn.Write([]byte{0x05, 0x05, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
		return
	}
	defer func() { _ = target.Close() }()

	if _, err := conn.Write([]byte{0x05, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		_, _ = io.Copy(target, conn)
		if tc, ok := target.(*net.TCPConn); ok {
			_ = tc.CloseWrite()
		}
		close(done)
	}()
	_, _ = io.Copy(conn, target)
	_ = conn.Close()
	<-done
}

func readUserPass(conn net.Conn) (string, string, error) {
	// VER ULEN UNAME PLEN PASSWD
	ver := make([]byte, 2)
	if _, err := io.ReadFull(conn, ver); err != nil {
		return "", "", err
	}
	user := make([]byte, ver[1])
	if _, err := io.ReadFull(conn, user); err != nil {
		return "", "", err
	}
	plen := make([]byte, 1)
	if _, err := io.ReadFull(conn, plen); err != nil {
		return "", "", err
	}
	pass := make([]byte, plen[0])
	if _, err := io.ReadFull(conn, pass); err != nil {
		return "", "", err
	}
	return string(user), string(pass), nil
}

func readAddr(conn net.Conn, atyp byte) (string, error) {
	switch atyp {
	case 0x01:
		ip := make([]byte, net.IPv4len)
		if _, err := io.ReadFull(conn, ip); err != nil {
			return "", err
		}
		return net.IP(ip).String(), nil
	case 0x04:
		ip := make([]byte, net.IPv6len)
		if _, err := io.ReadFull(conn, ip); err != nil {
			return "", err
		}
		return net.IP(ip).String(), nil
	default:
		n := make([]byte, 1)
		if _, err := io.ReadFull(conn, n); err != nil {
			return "", err
		}
		name := make([]byte, n[0])
		if _, err := io.ReadFull(conn, name); err != nil {
			return "", err
		}
		return string(name), nil
	}
}

// newEchoServer starts a TCP server echoing every connection back to the client.
func newEchoServer(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { _ = conn.Close() }()
				_, _ = io.Copy(conn, conn)
			}()
		}
	}()

	t.Cleanup(func() {
		_ = ln.Close()
		wg.Wait()
	})
	return ln.Addr().String()
}
