// quic.go
// Purpose: QUIC plumbing for the control surface. The server presents a
// throwaway self-signed certificate; clients skip verification and must agree
// on the control ALPN.
package elevnetwork

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"time"

	quic "github.com/quic-go/quic-go"
)

const CONTROL_ALPN = "liftdispatch-ctl"

func controlQUICConfig() *quic.Config {
	return &quic.Config{
		KeepAlivePeriod:      2 * time.Second,
		HandshakeIdleTimeout: 3 * time.Second,
		MaxIdleTimeout:       30 * time.Second,
	}
}

func selfSignedCert() (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("ecdsa key: %w", err)
	}
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("serial: %w", err)
	}

	tmpl := &x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: "liftdispatch control"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("create cert: %w", err)
	}
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}, nil
}

func serverTLS() (*tls.Config, error) {
	cert, err := selfSignedCert()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{CONTROL_ALPN},
		MinVersion:   tls.VersionTLS13,
	}, nil
}

func clientTLS() *tls.Config {
	return &tls.Config{
		InsecureSkipVerify: true,
		NextProtos:         []string{CONTROL_ALPN},
		MinVersion:         tls.VersionTLS13,
	}
}

// listenControl accepts connections until ctx is cancelled and runs serve for
// each on its own goroutine.
func listenControl(ctx context.Context, listenAddr string, serve func(conn *quic.Conn)) error {
	tlsConf, err := serverTLS()
	if err != nil {
		return fmt.Errorf("server tls config: %w", err)
	}

	ln, err := quic.ListenAddr(listenAddr, tlsConf, controlQUICConfig())
	if err != nil {
		return fmt.Errorf("quic listen: %w", err)
	}
	defer ln.Close()

	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("quic accept: %w", err)
		}
		go serve(conn)
	}
}

// dialControl connects and opens the one stream the control session runs on.
func dialControl(ctx context.Context, remoteAddr string, openTimeout time.Duration) (*quic.Conn, *quic.Stream, error) {
	conn, err := quic.DialAddr(ctx, remoteAddr, clientTLS(), controlQUICConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("quic dial %s: %w", remoteAddr, err)
	}

	stCtx, cancel := context.WithTimeout(ctx, openTimeout)
	defer cancel()
	stream, err := conn.OpenStreamSync(stCtx)
	if err != nil {
		_ = conn.CloseWithError(0, "open stream failed")
		return nil, nil, fmt.Errorf("open stream: %w", err)
	}
	return conn, stream, nil
}

func closeControl(conn *quic.Conn, stream *quic.Stream, reason string) {
	if stream != nil {
		_ = stream.Close()
	}
	if conn != nil {
		_ = conn.CloseWithError(0, reason)
	}
}
