// Package visa talks to the generator through a VISA resource manager, for
// hosts where the vendor VISA stack owns the USB device or the generator is
// reached over LAN.
package visa

import (
	"context"

	vi "github.com/jpoirier/visa"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const DefaultReadSize = 1024

// Session is an open VISA instrument session.
type Session struct {
	Instr           vi.Object
	ResourceManager vi.Session
	readSize        uint32
	log             logrus.FieldLogger
}

// Open connects to a resource such as "TCPIP::192.168.1.70::INSTR" or
// "USB0::0x5345::0x1234::<serial>::INSTR".
func Open(resource string, readSize int, log logrus.FieldLogger) (*Session, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if readSize <= 0 {
		readSize = DefaultReadSize
	}
	rm, status := vi.OpenDefaultRM()
	if status < vi.SUCCESS {
		return nil, errors.New("could not open a session to the VISA Resource Manager")
	}

	instr, status := rm.Open(resource, vi.NULL, vi.NULL)
	if status < vi.SUCCESS {
		rm.Close()
		return nil, errors.Errorf("an error occurred opening the session to %s", resource)
	}
	log.WithField("resource", resource).Debug("opened VISA session")
	return &Session{Instr: instr, ResourceManager: rm, readSize: uint32(readSize), log: log}, nil
}

// Write sends p to the instrument. VISA calls cannot be interrupted, so ctx
// is only checked before the call.
func (s *Session) Write(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, status := s.Instr.Write(p, uint32(len(p)))
	if status < vi.SUCCESS {
		return int(n), writeError(status)
	}
	if int(n) != len(p) {
		return int(n), errors.Errorf("short write to the device: %d of %d bytes", n, len(p))
	}
	return int(n), nil
}

// Read copies one reply into p.
func (s *Session) Read(ctx context.Context, p []byte) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	size := s.readSize
	if uint32(len(p)) < size {
		size = uint32(len(p))
	}
	b, _, status := s.Instr.Read(size)
	if status < vi.SUCCESS {
		return 0, readError(status)
	}
	return copy(p, b), nil
}

func (s *Session) Close() error {
	s.Instr.Close()
	s.ResourceManager.Close()
	return nil
}

func writeError(status vi.Status) error {
	return errors.Errorf("error writing to the device: %v", status)
}

func readError(status vi.Status) error {
	return errors.Errorf("read failed with error code %x", status)
}
