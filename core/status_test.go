package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func ExampleStatus_String() {
	fmt.Println(Status{Kind: StatusExited, Code: 2})
	fmt.Println(Status{Kind: StatusSignaled, Signal: unix.SIGKILL})
	fmt.Println(Status{Kind: StatusStopped, Signal: unix.SIGTSTP})
	fmt.Println(Status{Kind: StatusContinued})
	fmt.Println(Status{})

	// Output: exited with status 2
	// terminated by signal 9 (killed)
	// stopped by signal 20 (stopped)
	// continued
	// unknown status
}

func TestDecodeWaitStatus(t *testing.T) {
	// Raw encodings as returned by wait4 on Linux.
	cases := map[string]struct {
		raw      unix.WaitStatus
		expected Status
	}{
		"exit 0": {
			raw:      0,
			expected: Status{Kind: StatusExited},
		},
		"exit 7": {
			raw:      7 << 8,
			expected: Status{Kind: StatusExited, Code: 7},
		},
		"exit 255": {
			raw:      255 << 8,
			expected: Status{Kind: StatusExited, Code: 255},
		},
		"killed by SIGINT": {
			raw:      unix.WaitStatus(unix.SIGINT),
			expected: Status{Kind: StatusSignaled, Signal: unix.SIGINT},
		},
		"killed with core dump": {
			raw:      unix.WaitStatus(unix.SIGSEGV) | 0x80,
			expected: Status{Kind: StatusSignaled, Signal: unix.SIGSEGV},
		},
		"stopped by SIGTSTP": {
			raw:      0x7f | unix.WaitStatus(unix.SIGTSTP)<<8,
			expected: Status{Kind: StatusStopped, Signal: unix.SIGTSTP},
		},
		"continued": {
			raw:      0xffff,
			expected: Status{Kind: StatusContinued},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, DecodeWaitStatus(tc.raw))
		})
	}
}

func TestStatus_Success(t *testing.T) {
	assert.True(t, Status{Kind: StatusExited}.Success())
	assert.False(t, Status{Kind: StatusExited, Code: 1}.Success())
	assert.False(t, Status{Kind: StatusSignaled, Signal: unix.SIGTERM}.Success())
	assert.False(t, Status{Kind: StatusContinued}.Success())
	assert.False(t, Status{}.Success())
}
