//go:build !linux

package hotkey

import (
	"sync"
	"time"

	"golang.design/x/hotkey"
)

// Raw Alt transitions are not observable through OS hotkey registration,
// so off Linux the activation key is the Ctrl+Shift+Space combination:
// double-tap the combo instead of double-tapping Alt.
const comboCode uint16 = 1

type xSource struct {
	hk     *hotkey.Hotkey
	events chan KeyEvent
	stop   chan struct{}
	once   sync.Once
}

func NewSource() Source {
	return &xSource{
		hk:     hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeySpace),
		events: make(chan KeyEvent, 16),
	}
}

func (s *xSource) Register() error {
	if err := s.hk.Register(); err != nil {
		return err
	}
	s.stop = make(chan struct{})
	go func() {
		for {
			select {
			case <-s.hk.Keydown():
				s.emit(Press)
			case <-s.stop:
				return
			}
		}
	}()
	go func() {
		for {
			select {
			case <-s.hk.Keyup():
				s.emit(Release)
			case <-s.stop:
				return
			}
		}
	}()
	return nil
}

func (s *xSource) emit(edge Edge) {
	select {
	case s.events <- KeyEvent{Code: comboCode, Edge: edge, At: time.Now()}:
	default:
	}
}

func (s *xSource) Unregister() {
	s.once.Do(func() {
		s.hk.Unregister()
		if s.stop != nil {
			close(s.stop)
		}
		close(s.events)
	})
}

func (s *xSource) Events() <-chan KeyEvent {
	return s.events
}
