package inject

import (
	"sync"

	"github.com/atotto/clipboard"
)

// clipboardBackend is the minimal surface ClipboardManager needs from the
// system clipboard. The production backend wraps atotto/clipboard; tests
// inject an in-memory fake.
type clipboardBackend interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// ClipboardManager saves, writes, reads, and restores the system clipboard
// around text-injection operations. The system clipboard is a
// process-global resource, so every Clipboard-strategy injection saves and
// restores it rather than clobbering whatever the user had copied.
type ClipboardManager struct {
	backend clipboardBackend

	mu     sync.Mutex
	saved  string
	hasVal bool
}

// NewClipboardManager builds a ClipboardManager backed by the real system
// clipboard.
func NewClipboardManager() *ClipboardManager {
	return &ClipboardManager{backend: systemClipboard{}}
}

func (c *ClipboardManager) backendOrDefault() clipboardBackend {
	if c.backend == nil {
		return systemClipboard{}
	}
	return c.backend
}

// Save captures the current clipboard text. Non-text or empty clipboard
// content is tolerated as "nothing saved" rather than an error.
func (c *ClipboardManager) Save() error {
	text, err := c.backendOrDefault().ReadAll()
	if err != nil {
		// The backend clipboard tool (wl-paste et al.) reports an error
		// when the clipboard is empty or holds non-text content; treat
		// that the same as an empty clipboard rather than failing Save.
		c.mu.Lock()
		c.hasVal = false
		c.saved = ""
		c.mu.Unlock()
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if text == "" {
		c.hasVal = false
		c.saved = ""
		return nil
	}
	c.hasVal = true
	c.saved = text
	return nil
}

// Write sets the clipboard to text.
func (c *ClipboardManager) Write(text string) error {
	if err := c.backendOrDefault().WriteAll(text); err != nil {
		return &ClipboardFailedError{Cause: err}
	}
	return nil
}

// Read returns the current clipboard text and whether it was non-empty.
func (c *ClipboardManager) Read() (string, bool) {
	text, err := c.backendOrDefault().ReadAll()
	if err != nil || text == "" {
		return "", false
	}
	return text, true
}

// Restore writes the saved value back, if Save captured one.
func (c *ClipboardManager) Restore() error {
	c.mu.Lock()
	text, ok := c.saved, c.hasVal
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return c.Write(text)
}

// Clear writes an empty string to the clipboard.
func (c *ClipboardManager) Clear() error {
	return c.Write("")
}

// HasSavedContent reports whether Save captured non-empty content.
func (c *ClipboardManager) HasSavedContent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasVal
}

// GetSavedContent returns the content captured by Save, if any.
func (c *ClipboardManager) GetSavedContent() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saved, c.hasVal
}

// ClearSaved discards the captured content without touching the clipboard.
func (c *ClipboardManager) ClearSaved() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved = ""
	c.hasVal = false
}
