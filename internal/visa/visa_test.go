package visa

import (
	"fmt"
	"testing"

	vi "github.com/jpoirier/visa"
	"github.com/stretchr/testify/assert"
)

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		err   error
		msg   string
		frame string
	}{
		{writeError(vi.Status(-5)), "error writing to the device: -5", "visa.writeError"},
		{readError(vi.Status(0x3f)), "read failed with error code 3f", "visa.readError"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.msg, tt.err.Error())
		// errors from pkg/errors print their stack with %+v
		assert.Contains(t, fmt.Sprintf("%+v", tt.err), tt.frame)
	}
}
