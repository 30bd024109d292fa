package device

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/couchcryptid/restroom-finder/internal/domain"
)

// Consent gates a geolocator behind a one-time permission prompt. The answer
// is remembered for the life of the process.
type Consent struct {
	inner domain.Geolocator
	in    io.Reader
	out   io.Writer

	once    sync.Once
	granted bool
}

// NewConsent wraps inner. The question is written to out and the answer read from in.
func NewConsent(inner domain.Geolocator, in io.Reader, out io.Writer) *Consent {
	return &Consent{inner: inner, in: in, out: out}
}

// Available never prompts.
func (c *Consent) Available() bool {
	if c.inner == nil {
		return false
	}
	if a, ok := c.inner.(domain.AvailabilityReporter); ok {
		return a.Available()
	}
	return true
}

func (c *Consent) RequestPosition(onSuccess func(domain.Coordinates), onFailure func(domain.DeviceError)) {
	c.once.Do(func() { c.granted = c.ask() })
	if !c.granted {
		onFailure(domain.DeviceError{Code: domain.DevicePermissionDenied, Message: "location access declined"})
		return
	}
	c.inner.RequestPosition(onSuccess, onFailure)
}

func (c *Consent) ask() bool {
	fmt.Fprint(c.out, "Allow restroom-finder to use your approximate location? [y/N] ")
	line, err := bufio.NewReader(c.in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
