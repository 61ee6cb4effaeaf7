package capture

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"beamscan/internal/domain/scan"
	domainErrors "beamscan/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	mu          sync.Mutex
	inputErr    error
	decoderErr  error
	startErr    error
	startGate   chan struct{}
	deliver     func(string)
	symbologies []scan.Symbology
	running     bool
	released    bool
	stops       int
}

func (d *fakeDevice) AttachInput() error { return d.inputErr }

func (d *fakeDevice) AttachDecoder(symbologies []scan.Symbology, deliver func(string)) error {
	if d.decoderErr != nil {
		return d.decoderErr
	}
	d.mu.Lock()
	d.symbologies = symbologies
	d.deliver = deliver
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) StartRunning(ctx context.Context) error {
	if d.startGate != nil {
		select {
		case <-d.startGate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if d.startErr != nil {
		return d.startErr
	}
	d.mu.Lock()
	d.running = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) StopRunning() {
	d.mu.Lock()
	d.running = false
	d.stops++
	d.mu.Unlock()
}

func (d *fakeDevice) Release() {
	d.mu.Lock()
	d.released = true
	d.mu.Unlock()
}

func (d *fakeDevice) emit(v string) {
	d.mu.Lock()
	deliver := d.deliver
	d.mu.Unlock()
	deliver(v)
}

func (d *fakeDevice) isReleased() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.released
}

type fakeHardware struct {
	device *fakeDevice
}

func (h *fakeHardware) DefaultDevice() (Device, bool) {
	if h.device == nil {
		return nil, false
	}
	return h.device, true
}

func TestSession_StartAndStream(t *testing.T) {
	dev := &fakeDevice{}
	s := NewSession("s1", &fakeHardware{device: dev}, Config{}, nil)

	h, err := s.Start(context.Background())
	require.NoError(t, err)
	defer s.Stop()

	assert.True(t, s.Running())
	assert.Equal(t, scan.DefaultSymbologies, dev.symbologies)

	dev.emit("one")
	dev.emit("two")
	dev.emit("three")

	for _, want := range []string{"one", "two", "three"} {
		got := <-h.Events()
		assert.Equal(t, want, got.Value)
		assert.False(t, got.ReceivedAt.IsZero())
	}

	again, err := s.Start(context.Background())
	require.NoError(t, err)
	assert.Same(t, h, again)
}

func TestSession_StartFailures(t *testing.T) {
	tests := []struct {
		name    string
		hw      *fakeHardware
		wantErr error
	}{
		{"no device", &fakeHardware{}, domainErrors.ErrDeviceUnavailable},
		{"input rejected", &fakeHardware{device: &fakeDevice{inputErr: errors.New("busy")}}, domainErrors.ErrInputRejected},
		{"output rejected", &fakeHardware{device: &fakeDevice{decoderErr: errors.New("no metadata")}}, domainErrors.ErrOutputRejected},
		{"start failed", &fakeHardware{device: &fakeDevice{startErr: errors.New("io")}}, domainErrors.ErrDeviceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(tt.name, tt.hw, Config{}, nil)

			h, err := s.Start(context.Background())
			assert.Nil(t, h)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.False(t, s.Running())
			assert.False(t, LeaseHeld(tt.hw))
			if tt.hw.device != nil {
				assert.True(t, tt.hw.device.isReleased())
			}
		})
	}
}

func TestSession_StopIsIdempotent(t *testing.T) {
	dev := &fakeDevice{}
	hw := &fakeHardware{device: dev}
	s := NewSession("s1", hw, Config{}, nil)

	s.Stop()

	h, err := s.Start(context.Background())
	require.NoError(t, err)

	h.Stop()
	s.Stop()
	h.Stop()

	_, open := <-h.Events()
	assert.False(t, open)
	assert.True(t, dev.isReleased())
	assert.Equal(t, 1, dev.stops)
	assert.False(t, LeaseHeld(hw))

	// Late callbacks after stop are ignored.
	assert.NotPanics(t, func() { dev.emit("late") })
}

func TestSession_CancelDuringStart(t *testing.T) {
	dev := &fakeDevice{startGate: make(chan struct{})}
	hw := &fakeHardware{device: dev}
	s := NewSession("s1", hw, Config{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Start(ctx)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, dev.isReleased())
	assert.False(t, s.Running())
	assert.False(t, LeaseHeld(hw))
}

func TestSession_StopDuringStart(t *testing.T) {
	dev := &fakeDevice{startGate: make(chan struct{})}
	hw := &fakeHardware{device: dev}
	s := NewSession("s1", hw, Config{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.Start(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		dev.mu.Lock()
		defer dev.mu.Unlock()
		return dev.deliver != nil
	}, time.Second, time.Millisecond)

	s.Stop()
	close(dev.startGate)

	assert.Error(t, <-done)
	assert.True(t, dev.isReleased())
	assert.False(t, s.Running())
	assert.False(t, LeaseHeld(hw))
}

func TestSession_ExclusiveLease(t *testing.T) {
	hw := &fakeHardware{device: &fakeDevice{}}
	first := NewSession("first", hw, Config{}, nil)
	second := NewSession("second", hw, Config{}, nil)

	_, err := first.Start(context.Background())
	require.NoError(t, err)
	assert.True(t, LeaseHeld(hw))

	_, err = second.Start(context.Background())
	assert.True(t, errors.Is(err, domainErrors.ErrDeviceUnavailable))
	assert.Contains(t, err.Error(), "first")

	first.Stop()
	assert.False(t, LeaseHeld(hw))

	_, err = second.Start(context.Background())
	require.NoError(t, err)
	second.Stop()
}

func TestSession_IndependentHardware(t *testing.T) {
	frontDev, backDev := &fakeDevice{}, &fakeDevice{}
	front := NewSession("front", &fakeHardware{device: frontDev}, Config{}, nil)
	back := NewSession("back", &fakeHardware{device: backDev}, Config{}, nil)

	fh, err := front.Start(context.Background())
	require.NoError(t, err)
	defer front.Stop()

	bh, err := back.Start(context.Background())
	require.NoError(t, err)
	defer back.Stop()

	assert.True(t, front.Running())
	assert.True(t, back.Running())

	frontDev.emit("front")
	backDev.emit("back")
	assert.Equal(t, "front", (<-fh.Events()).Value)
	assert.Equal(t, "back", (<-bh.Events()).Value)
}

type countingMetrics struct {
	mu      sync.Mutex
	dropped int
	starts  []string
}

func (m *countingMetrics) RecordCaptureStart(result string) {
	m.mu.Lock()
	m.starts = append(m.starts, result)
	m.mu.Unlock()
}

func (m *countingMetrics) RecordEventDropped() {
	m.mu.Lock()
	m.dropped++
	m.mu.Unlock()
}

func TestSession_DropsWhenBufferFull(t *testing.T) {
	dev := &fakeDevice{}
	metrics := &countingMetrics{}
	s := NewSession("s1", &fakeHardware{device: dev}, Config{EventBuffer: 2}, metrics)

	h, err := s.Start(context.Background())
	require.NoError(t, err)
	defer s.Stop()

	for i := 0; i < 5; i++ {
		dev.emit("held in frame")
	}

	assert.Len(t, h.Events(), 2)
	assert.Equal(t, 3, metrics.dropped)
	assert.Equal(t, []string{"ok"}, metrics.starts)
}
