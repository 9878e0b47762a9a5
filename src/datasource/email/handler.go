// handler.go
package email

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nicholasarchambault/employee-exit-surveys/src/storage"
)

// AttachmentHandler saves survey-extract attachments (csv or xlsx) from
// matching mails into the data directory, remembering which messages it
// has already handled.
type AttachmentHandler struct {
	TargetSubject string
	DataDir       string
	processedUIDs map[uint32]bool
	mu            sync.RWMutex
}

func NewAttachmentHandler(subject, dataDir string) *AttachmentHandler {
	return &AttachmentHandler{
		TargetSubject: subject,
		DataDir:       dataDir,
		processedUIDs: make(map[uint32]bool),
	}
}

func (h *AttachmentHandler) isProcessed(uid uint32) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.processedUIDs[uid]
}

func (h *AttachmentHandler) markAsProcessed(uid uint32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.processedUIDs[uid] = true
}

func isSurveyExtract(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Handle saves the survey-extract attachments of one mail and returns the
// saved paths. Already-processed mails and non-matching subjects are
// skipped silently.
func (h *AttachmentHandler) Handle(email *Email, logger *storage.Logger) ([]string, error) {
	if email == nil || h.isProcessed(email.UID) {
		return nil, nil
	}
	if !strings.Contains(email.Subject, h.TargetSubject) {
		return nil, nil
	}

	logger.Info(fmt.Sprintf("processing mail %q from %s (%s)",
		email.Subject, email.From, email.Date.Format("2006-01-02 15:04:05")))

	if err := os.MkdirAll(h.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	var saved []string
	for _, attachment := range email.Attachments {
		if !isSurveyExtract(attachment.Filename) {
			continue
		}
		filePath := filepath.Join(h.DataDir, filepath.Base(attachment.Filename))
		if err := os.WriteFile(filePath, attachment.Content, 0644); err != nil {
			return saved, fmt.Errorf("failed to save attachment: %w", err)
		}
		logger.Info("saved survey extract: " + filePath)
		saved = append(saved, filePath)
	}

	if len(saved) > 0 {
		h.markAsProcessed(email.UID)
	}
	return saved, nil
}
