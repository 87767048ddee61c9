package console

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/doeshing/skyrim-search-se/internal/domain"
	"github.com/doeshing/skyrim-search-se/internal/ports"
)

// Channel prints text into the host console one line, and one buffer-sized
// chunk, at a time.
type Channel struct {
	host      ports.HostConsole
	logger    ports.Logger
	chunkSize int
}

// NewChannel builds a Channel for a host whose print buffer holds bufferSize
// bytes including the terminator.
func NewChannel(host ports.HostConsole, logger ports.Logger, bufferSize int) *Channel {
	if bufferSize < 2 {
		bufferSize = domain.DefaultPrintBufferSize
	}
	return &Channel{host: host, logger: logger, chunkSize: bufferSize - 1}
}

// ChunkSize is the largest payload passed to the host in one call.
func (c *Channel) ChunkSize() int {
	return c.chunkSize
}

// Print implements ports.Printer.
func (c *Channel) Print(text string) {
	console := c.host.ConsoleState()
	if console == 0 {
		c.logger.Debug("console not ready, output dropped", map[string]interface{}{"bytes": len(text)})
		return
	}

	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, string(utf8.RuneError))
	}

	for _, line := range strings.Split(text, "\n") {
		for _, chunk := range SplitChunks([]byte(line), c.chunkSize) {
			cstr, err := CString(chunk)
			if err != nil {
				c.logger.Error("console chunk skipped", err, map[string]interface{}{"bytes": len(chunk)})
				continue
			}
			c.host.Print(console, cstr)
		}
	}
}

// SplitChunks cuts b into pieces of at most size bytes. An empty input yields no chunks.
func SplitChunks(b []byte, size int) [][]byte {
	if size <= 0 {
		size = len(b)
	}
	var chunks [][]byte
	for len(b) > 0 {
		n := size
		if n > len(b) {
			n = len(b)
		}
		chunks = append(chunks, b[:n])
		b = b[n:]
	}
	return chunks
}

// CString returns a NUL-terminated copy of b. It fails if b already contains a NUL.
func CString(b []byte) ([]byte, error) {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return nil, domain.New(domain.KindOutputEncoding, fmt.Sprintf("nul byte found in provided data at position %d", i))
	}
	out := make([]byte, len(b)+1)
	copy(out, b)
	return out, nil
}

var _ ports.Printer = (*Channel)(nil)
