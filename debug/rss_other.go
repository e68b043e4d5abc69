//go:build !windows && !linux && !darwin && !freebsd

package debug

import "github.com/pkg/errors"

func residentSetSize() (uint64, error) {
	return 0, errors.New("rss not supported on this platform")
}
