package clog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
)

// Handler writes one line per entry: level, time, message, then the fields
// sorted by name with the ctx field first.
type Handler struct {
	mu     sync.Mutex
	Writer io.WriteCloser
	Now    func() time.Time
}

var levelToStrings = [...]string{
	log.DebugLevel: "DEBUG",
	log.InfoLevel:  "INFO",
	log.WarnLevel:  "WARN",
	log.ErrorLevel: "ERROR",
	log.FatalLevel: "FATAL",
}

func NewHandler(w io.WriteCloser) *Handler {
	return &Handler{Writer: w, Now: time.Now}
}

func (h *Handler) SetOutput(w io.WriteCloser) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeWriter()
	h.Writer = w
}

func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeWriter()
}

// closeWriter never closes stdout or stderr.
func (h *Handler) closeWriter() {
	if h.Writer == nil || h.Writer == os.Stdout || h.Writer == os.Stderr {
		return
	}
	_ = h.Writer.Close()
}

func (h *Handler) HandleLog(e *log.Entry) error {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		if name != "ctx" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b bytes.Buffer
	_, _ = fmt.Fprintf(&b, "%5s %s", levelToStrings[e.Level], h.Now().Format(time.DateTime))
	if ctx, ok := e.Fields["ctx"]; ok {
		_, _ = fmt.Fprintf(&b, " [%v]", ctx)
	}
	_, _ = fmt.Fprintf(&b, " %-25s", e.Message)

	for _, name := range names {
		_, _ = fmt.Fprintf(&b, " %s=%v", name, e.Fields[name])
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintln(h.Writer, b.String())

	return err
}
