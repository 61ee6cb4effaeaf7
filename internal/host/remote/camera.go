// Package remote is a host whose camera lives on a client device. The client
// decodes frames itself and pushes the strings; it also answers the camera
// permission prompt on the user's behalf.
package remote

import (
	"context"
	"sync"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"
	"beamscan/internal/services/capture"
)

// Camera implements capture.Hardware and capture.Device for one client.
type Camera struct {
	mu          sync.Mutex
	present     bool
	inputErr    error
	outputErr   error
	deliver     func(string)
	symbologies []scan.Symbology
	running     bool
	acks        int
}

func NewCamera(present bool) *Camera {
	return &Camera{present: present}
}

// RejectInput makes the next AttachInput fail with err.
func (c *Camera) RejectInput(err error) {
	c.mu.Lock()
	c.inputErr = err
	c.mu.Unlock()
}

// RejectOutput makes the next AttachDecoder fail with err.
func (c *Camera) RejectOutput(err error) {
	c.mu.Lock()
	c.outputErr = err
	c.mu.Unlock()
}

func (c *Camera) DefaultDevice() (capture.Device, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.present {
		return nil, false
	}
	return c, true
}

func (c *Camera) AttachInput() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputErr
}

func (c *Camera) AttachDecoder(symbologies []scan.Symbology, deliver func(string)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outputErr != nil {
		return c.outputErr
	}
	c.symbologies = symbologies
	c.deliver = deliver
	return nil
}

func (c *Camera) StartRunning(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.running = true
	c.mu.Unlock()
	return nil
}

func (c *Camera) StopRunning() {
	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
}

func (c *Camera) Release() {
	c.mu.Lock()
	c.running = false
	c.deliver = nil
	c.mu.Unlock()
}

// Running reports whether frames are being accepted.
func (c *Camera) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Symbologies returns the symbologies the decoder was configured with.
func (c *Camera) Symbologies() []scan.Symbology {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.symbologies
}

// Push hands one decoded string to the capture session.
func (c *Camera) Push(value string) error {
	c.mu.Lock()
	deliver := c.deliver
	running := c.running
	c.mu.Unlock()

	if !running || deliver == nil {
		return domainErrors.ErrCameraNotRunning
	}
	deliver(value)
	return nil
}

// Acknowledge counts an accepted read. The client mirrors it as haptic
// feedback.
func (c *Camera) Acknowledge() {
	c.mu.Lock()
	c.acks++
	c.mu.Unlock()
}

func (c *Camera) Acknowledged() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acks
}
