// Package feed is a client for the face-recognition engine's WebSocket feed.
package feed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types spoken by the recognizer.
const (
	TypeGetStatus            = "get_status"
	TypeStatus               = "status"
	TypeAttendance           = "attendance"
	TypeAddEmployee          = "add_employee"
	TypeAddEmployeeResponse  = "add_employee_response"
	TypeRefreshFaces         = "refresh_faces"
	TypeRefreshFacesResponse = "refresh_faces_response"
)

const (
	maxRecentEvents = 10
	writeTimeout    = 10 * time.Second
)

var ErrNotConnected = errors.New("recognition feed is not connected")

type AttendanceEvent struct {
	Type         string `json:"type"`
	EmployeeID   string `json:"employee_id,omitempty"`
	EmployeeName string `json:"employee_name"`
	EntryType    string `json:"entry_type"`
	Timestamp    string `json:"timestamp"`
}

type StatusMessage struct {
	Type             string `json:"type"`
	RegisteredFaces  int    `json:"registered_faces"`
	ConnectedClients int    `json:"connected_clients"`
}

type AddEmployeeResponse struct {
	Type    string `json:"type"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type RefreshFacesResponse struct {
	Type      string `json:"type"`
	Success   bool   `json:"success"`
	FaceCount int    `json:"face_count"`
	Message   string `json:"message"`
}

type addEmployeeMessage struct {
	Type         string `json:"type"`
	EmployeeName string `json:"employee_name"`
	ImageData    string `json:"image_data"`
}

type command struct {
	Type string `json:"type"`
}

// Status is the last known state of the recognizer.
type Status struct {
	Connected        bool
	RegisteredFaces  int
	ConnectedClients int
	UpdatedAt        time.Time
}

// Handler receives every decoded inbound message. payload is one of
// AttendanceEvent, StatusMessage, AddEmployeeResponse or RefreshFacesResponse.
type Handler func(msgType string, payload interface{})

// Client keeps a single connection to the recognizer and redials after a
// fixed delay whenever it drops.
type Client struct {
	url            string
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
	handler        Handler

	mu     sync.RWMutex
	conn   *websocket.Conn
	status Status
	recent []AttendanceEvent

	writeMu sync.Mutex
}

func NewClient(url string, reconnectDelay time.Duration, handler Handler) *Client {
	if handler == nil {
		handler = func(string, interface{}) {}
	}
	return &Client{
		url:            url,
		reconnectDelay: reconnectDelay,
		dialer:         websocket.DefaultDialer,
		handler:        handler,
		recent:         make([]AttendanceEvent, 0, maxRecentEvents),
	}
}

// Run blocks until ctx is cancelled.
func (c *Client) Run(ctx context.Context) {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			slog.Info("Recognition feed stopped")
			return
		}
		slog.Warn("Recognition feed disconnected, reconnecting", "url", c.url, "error", err, "retry_in", c.reconnectDelay)

		select {
		case <-ctx.Done():
			slog.Info("Recognition feed stopped")
			return
		case <-time.After(c.reconnectDelay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial recognizer: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.status.Connected = true
	c.mu.Unlock()
	slog.Info("Recognition feed connected", "url", c.url)

	done := make(chan struct{})
	defer func() {
		close(done)
		c.mu.Lock()
		c.conn = nil
		c.status.Connected = false
		c.mu.Unlock()
		conn.Close()
	}()

	// Unblock ReadMessage on shutdown.
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	if err := c.RequestStatus(); err != nil {
		return err
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read from recognizer: %w", err)
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var envelope command
	if err := json.Unmarshal(data, &envelope); err != nil {
		slog.Warn("Recognition feed sent an unparsable frame", "error", err)
		return
	}

	var payload interface{}
	var err error
	switch envelope.Type {
	case TypeAttendance:
		var event AttendanceEvent
		if err = json.Unmarshal(data, &event); err == nil {
			c.pushRecent(event)
			payload = event
		}
	case TypeStatus:
		var status StatusMessage
		if err = json.Unmarshal(data, &status); err == nil {
			c.UpdateStatus(status.RegisteredFaces, status.ConnectedClients)
			payload = status
		}
	case TypeAddEmployeeResponse:
		var resp AddEmployeeResponse
		if err = json.Unmarshal(data, &resp); err == nil {
			payload = resp
		}
	case TypeRefreshFacesResponse:
		var resp RefreshFacesResponse
		if err = json.Unmarshal(data, &resp); err == nil {
			payload = resp
		}
	default:
		slog.Debug("Recognition feed message ignored", "type", envelope.Type)
		return
	}

	if err != nil {
		slog.Warn("Recognition feed message could not be decoded", "type", envelope.Type, "error", err)
		return
	}
	c.handler(envelope.Type, payload)
}

// pushRecent keeps the newest events first, capped at maxRecentEvents.
func (c *Client) pushRecent(event AttendanceEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.recent)
	if n < maxRecentEvents {
		c.recent = append(c.recent, AttendanceEvent{})
		n++
	}
	copy(c.recent[1:n], c.recent[0:n-1])
	c.recent[0] = event
}

// UpdateStatus records counters reported by the recognizer.
func (c *Client) UpdateStatus(registeredFaces, connectedClients int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status.RegisteredFaces = registeredFaces
	c.status.ConnectedClients = connectedClients
	c.status.UpdatedAt = time.Now()
}

func (c *Client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

// RecentAttendance returns a copy of the last attendance events, newest first.
func (c *Client) RecentAttendance() []AttendanceEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]AttendanceEvent, len(c.recent))
	copy(out, c.recent)
	return out
}

func (c *Client) RequestStatus() error {
	return c.send(command{Type: TypeGetStatus})
}

func (c *Client) RefreshFaces() error {
	return c.send(command{Type: TypeRefreshFaces})
}

// AddEmployee uploads a face image for enrolment under employeeName.
func (c *Client) AddEmployee(employeeName string, image []byte) error {
	return c.send(addEmployeeMessage{
		Type:         TypeAddEmployee,
		EmployeeName: employeeName,
		ImageData:    base64.StdEncoding.EncodeToString(image),
	})
}

func (c *Client) send(v interface{}) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := conn.WriteJSON(v); err != nil {
		return fmt.Errorf("failed to send to recognizer: %w", err)
	}
	return nil
}
