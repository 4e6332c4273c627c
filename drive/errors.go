package drive

import (
	"errors"
	"fmt"

	"github.com/baldhumanity/neat-drive/drive/nn"
)

// ConfigurationError reports shapes that cannot be wired together, such as a
// sensor count that differs from the network input width.
type ConfigurationError = nn.ConfigurationError

// ErrMalformedRecord is wrapped by decode failures of persisted tracks and networks.
var ErrMalformedRecord = nn.ErrMalformedRecord

var (
	ErrTrainingRunning = errors.New("training already running")
	ErrNoNetwork       = errors.New("no network promoted")
)

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
