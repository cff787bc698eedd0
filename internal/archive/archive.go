// Package archive persists finished Scavenger sessions to Cloud Storage so
// analyses can be retrieved after the process exits.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/scavlabs/scavenger/internal/gcs"
	"github.com/scavlabs/scavenger/internal/oai"
)

// TaskRecord is one completed task within a session.
type TaskRecord struct {
	Task      string        `json:"task"`
	Messages  []oai.Message `json:"messages"`
	FinalText string        `json:"final_text"`
}

// Session collects everything a run produced.
type Session struct {
	ID      uuid.UUID    `json:"id"`
	Model   string       `json:"model"`
	Started time.Time    `json:"started"`
	Tasks   []TaskRecord `json:"tasks"`
}

// NewSession starts a session record for the given model.
func NewSession(model string) *Session {
	return &Session{ID: uuid.New(), Model: model, Started: time.Now().UTC()}
}

// Record appends one finished task.
func (s *Session) Record(task string, messages []oai.Message, finalText string) {
	s.Tasks = append(s.Tasks, TaskRecord{Task: task, Messages: messages, FinalText: finalText})
}

// Prefix is the object-name prefix for this session's artifacts.
func (s *Session) Prefix() string {
	return fmt.Sprintf("sessions/%s/%s", s.Started.Format("2006-01-02"), s.ID)
}

// Uploader is the slice of the storage connector the archiver needs.
// *gcs.Connector satisfies it.
type Uploader interface {
	UploadData(ctx context.Context, bucket, data, objectName, contentType string, metadata map[string]string) (gcs.ObjectInfo, error)
	UploadFile(ctx context.Context, bucket, filePath, objectName string, metadata map[string]string) (gcs.ObjectInfo, error)
}

// Archiver writes session artifacts to a bucket. A zero Bucket disables
// archiving entirely.
type Archiver struct {
	Bucket string
	Store  Uploader
	// AuditPath optionally names the tool audit log to attach to the
	// session.
	AuditPath string
}

// Save uploads the transcript (and the audit log when present)
// concurrently. With no bucket configured it does nothing and reports no
// error.
func (a *Archiver) Save(ctx context.Context, s *Session) ([]gcs.ObjectInfo, error) {
	if a.Bucket == "" {
		return nil, nil
	}
	transcript, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	meta := map[string]string{"session": s.ID.String(), "model": s.Model}

	infos := make([]gcs.ObjectInfo, 2)
	present := make([]bool, 2)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := a.Store.UploadData(gctx, a.Bucket, string(transcript), s.Prefix()+"/transcript.json", "application/json", meta)
		if err != nil {
			return fmt.Errorf("archive transcript: %w", err)
		}
		infos[0], present[0] = info, true
		return nil
	})
	if a.AuditPath != "" {
		if _, err := os.Stat(a.AuditPath); err == nil {
			g.Go(func() error {
				name := s.Prefix() + "/" + filepath.Base(a.AuditPath)
				info, err := a.Store.UploadFile(gctx, a.Bucket, a.AuditPath, name, meta)
				if err != nil {
					return fmt.Errorf("archive audit log: %w", err)
				}
				infos[1], present[1] = info, true
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []gcs.ObjectInfo
	for i, ok := range present {
		if ok {
			out = append(out, infos[i])
		}
	}
	log.Info().Str("session", s.ID.String()).Int("objects", len(out)).Str("bucket", a.Bucket).Msg("session archived")
	return out, nil
}
