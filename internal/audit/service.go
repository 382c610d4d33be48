package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/abdelmaha121/sas/pkg/db/models"
	"github.com/abdelmaha121/sas/pkg/logger"
	"github.com/abdelmaha121/sas/pkg/types"
)

// Recorder accepts structured trail events. Writes are best-effort: a failed
// insert is logged and swallowed so it can never roll back the business
// transaction that produced it.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Event is one audit trail entry before persistence.
type Event struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   uuid.UUID
	Changes      any
	Client       types.ClientInfo
}

type recorder struct {
	repo Repository
	logg *logger.Logger
}

// NewRecorder wires an audit recorder with the provided repository.
func NewRecorder(repo Repository, logg *logger.Logger) (Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &recorder{repo: repo, logg: logg}, nil
}

func (r *recorder) Record(ctx context.Context, event Event) {
	entry := &models.AuditLog{
		ID:           uuid.New(),
		TenantID:     event.TenantID,
		UserID:       event.UserID,
		Action:       event.Action,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
	}

	if event.Changes != nil {
		raw, err := json.Marshal(event.Changes)
		if err != nil {
			r.logg.Error(ctx, "marshal audit changes", err)
		} else {
			entry.Changes = raw
		}
	}
	if event.Client.IPAddress != "" {
		ip := event.Client.IPAddress
		entry.IPAddress = &ip
	}
	if event.Client.UserAgent != "" {
		agent := event.Client.UserAgent
		entry.UserAgent = &agent
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		r.logg.Error(ctx, "write audit log", err)
	}
}
