//go:build !windows

package logger

// debugOutput is a no-op outside Windows.
type debugOutput struct{}

func (debugOutput) Write(p []byte) (int, error) {
	return len(p), nil
}
