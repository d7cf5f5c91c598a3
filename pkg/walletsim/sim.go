// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package walletsim implements a minimal local wallet endpoint. It accepts
// the association WebSocket, answers the HELLO exchange and serves
// recognized methods with configurable canned results. It exists as test
// and demo infrastructure; real wallet semantics are out of scope.
package walletsim

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"github.com/solana-mobile/mwa-go/pkg/frame"
	"github.com/solana-mobile/mwa-go/pkg/keyex"
	"github.com/solana-mobile/mwa-go/pkg/session"
	"github.com/solana-mobile/mwa-go/pkg/transport"
)

// HandlerFunc produces the reply for one application request. Returning a
// non-nil *frame.ResponseError yields an error response instead of a
// result.
type HandlerFunc func(method string, params json.RawMessage) (json.RawMessage, *frame.ResponseError)

// DefaultHandler acknowledges every recognized method with an empty result
// object and rejects anything else.
func DefaultHandler(method string, params json.RawMessage) (json.RawMessage, *frame.ResponseError) {
	switch method {
	case session.MethodAuthorize,
		session.MethodReauthorize,
		session.MethodDeauthorize,
		session.MethodSignTransactions,
		session.MethodSignMessages,
		session.MethodSignAndSendTransactions:
		return json.RawMessage(`{}`), nil

	default:
		return nil, &frame.ResponseError{Code: -32601, Message: fmt.Sprintf("unsupported method %q", method)}
	}
}

// Sim is one wallet endpoint instance. It serves any number of association
// connections until closed.
type Sim struct {
	handler  HandlerFunc
	upgrader websocket.Upgrader

	associationPoint []byte

	listener net.Listener
	server   *http.Server

	connsMutex sync.Mutex
	conns      map[*websocket.Conn]struct{}
}

// New creates a Sim answering requests through handler; a nil handler
// selects DefaultHandler.
func New(handler HandlerFunc) *Sim {
	if handler == nil {
		handler = DefaultHandler
	}

	sim := &Sim{
		handler:  handler,
		upgrader: websocket.Upgrader{Subprotocols: []string{transport.Subprotocol}},
		conns:    make(map[*websocket.Conn]struct{}),
	}

	router := mux.NewRouter()
	router.HandleFunc("/solana-wallet", sim.serveAssociation)
	sim.server = &http.Server{Handler: router}

	return sim
}

// Start decodes the association token and begins listening on port. A port
// of zero picks a free one, see Port.
func (sim *Sim) Start(token string, port uint16) error {
	point, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return fmt.Errorf("decoding association token: %w", err)
	}
	if _, err := keyex.ParsePublicPoint(point); err != nil {
		return fmt.Errorf("association token: %w", err)
	}
	sim.associationPoint = point

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return err
	}
	sim.listener = listener

	go func() {
		if err := sim.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Wallet endpoint serving errored")
		}
	}()

	log.WithField("port", sim.Port()).Info("Wallet endpoint listening")
	return nil
}

// LaunchURL starts the Sim from a wallet invocation URL, the way a real
// wallet app is started by the platform's URL dispatch.
func (sim *Sim) LaunchURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}

	query := u.Query()
	port, err := strconv.ParseUint(query.Get("port"), 10, 16)
	if err != nil {
		return fmt.Errorf("invocation URL port: %w", err)
	}

	return sim.Start(query.Get("association"), uint16(port))
}

// Port returns the port the Sim is listening on.
func (sim *Sim) Port() uint16 {
	return uint16(sim.listener.Addr().(*net.TCPAddr).Port)
}

// Close shuts the listener and every open association connection down.
func (sim *Sim) Close() error {
	var result *multierror.Error

	if err := sim.server.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	sim.DropConnections()

	return result.ErrorOrNil()
}

// DropConnections kills every open association connection without shutting
// the listener down, simulating a wallet process dying mid-session.
func (sim *Sim) DropConnections() {
	sim.connsMutex.Lock()
	defer sim.connsMutex.Unlock()

	for conn := range sim.conns {
		_ = conn.Close()
		delete(sim.conns, conn)
	}
}

func (sim *Sim) serveAssociation(w http.ResponseWriter, r *http.Request) {
	conn, err := sim.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Warn("Upgrading association connection errored")
		return
	}

	sim.connsMutex.Lock()
	sim.conns[conn] = struct{}{}
	sim.connsMutex.Unlock()

	go sim.handleSession(conn)
}

// handleSession answers the HELLO exchange and then serves application
// requests until the connection dies.
func (sim *Sim) handleSession(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()

		sim.connsMutex.Lock()
		delete(sim.conns, conn)
		sim.connsMutex.Unlock()
	}()

	key, err := sim.acceptHello(conn)
	if err != nil {
		log.WithError(err).Warn("Association handshake errored")
		return
	}
	log.Debug("Association session established")

	// Requests are served concurrently so a slow handler does not hold
	// later requests back; writeMutex serializes the shared socket.
	var writeMutex sync.Mutex
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.WithError(err).Debug("Association connection gone")
			return
		}

		go func(data []byte) {
			if err := sim.serveRequest(conn, &writeMutex, key, data); err != nil {
				log.WithError(err).Warn("Serving request errored")
				_ = conn.Close()
			}
		}(data)
	}
}

// acceptHello verifies HELLO_REQ against the association token and replies
// with a fresh ephemeral public point, deriving the same session key as the
// client.
func (sim *Sim) acceptHello(conn *websocket.Conn) ([]byte, error) {
	_, raw, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if len(raw) <= keyex.PublicPointLen {
		return nil, fmt.Errorf("HELLO_REQ too short: %d bytes", len(raw))
	}

	clientPoint, sig := raw[:keyex.PublicPointLen], raw[keyex.PublicPointLen:]

	associationPub, err := keyex.ParsePublicPoint(sim.associationPoint)
	if err != nil {
		return nil, err
	}
	if !keyex.Verify(associationPub, clientPoint, sig) {
		return nil, fmt.Errorf("HELLO_REQ signature does not verify")
	}

	ephemeral, err := keyex.GenerateEphemeralKey()
	if err != nil {
		return nil, err
	}

	secret, err := keyex.SharedSecret(ephemeral, clientPoint)
	if err != nil {
		return nil, err
	}

	key, err := keyex.DeriveKey(secret, sim.associationPoint)
	if err != nil {
		return nil, err
	}

	if err := conn.WriteMessage(websocket.BinaryMessage, ephemeral.PublicKey().Bytes()); err != nil {
		return nil, err
	}
	return key, nil
}

func (sim *Sim) serveRequest(conn *websocket.Conn, writeMutex *sync.Mutex, key, data []byte) error {
	plaintext, _, err := frame.Decode(data, key)
	if err != nil {
		return err
	}

	var req frame.Request
	if err := json.Unmarshal(plaintext, &req); err != nil {
		return err
	}

	result, respErr := sim.handler(req.Method, req.Params)
	resp := frame.Response{ID: req.ID, Result: result, Error: respErr}

	respBytes, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	out, err := frame.Encode(respBytes, req.ID, key)
	if err != nil {
		return err
	}

	writeMutex.Lock()
	defer writeMutex.Unlock()
	return conn.WriteMessage(websocket.BinaryMessage, out)
}
