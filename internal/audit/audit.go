// Package audit records sensitive operations (logins, record
// mutations) with sensitive detail fields masked before storage.
package audit

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/google/uuid"

	"patientmanager/internal/model"
	"patientmanager/internal/repository"
)

// Sensitive detail fields that are never stored in clear text.
var sensitiveFields = []string{
	"password", "ssn", "social_security", "credit_card", "card_number",
	"date_of_birth", "dob", "address", "phone", "email",
}

// Event describes one auditable operation.
type Event struct {
	UserID     *uint
	Action     string
	EntityType string
	EntityID   *uint
	Details    map[string]interface{}
	IPAddress  string
}

// Logger persists audit events. A Logger without a repository (or a
// nil Logger) degrades to console output so audit failures never block
// the operation being audited.
type Logger struct {
	repo *repository.AuditRepository
}

func NewLogger(repo *repository.AuditRepository) *Logger {
	return &Logger{repo: repo}
}

// Record stores the event. Errors are logged, never returned: auditing
// must not fail the audited operation.
func (l *Logger) Record(ctx context.Context, event Event) {
	details := ""
	if event.Details != nil {
		data, err := json.Marshal(MaskSensitive(event.Details))
		if err != nil {
			log.Printf("audit: marshal details: %v", err)
		} else {
			details = string(data)
		}
	}

	if l == nil || l.repo == nil {
		log.Printf("audit: action=%s entity=%s details=%s", event.Action, event.EntityType, details)
		return
	}

	entry := &model.AuditLog{
		EventID:    uuid.NewString(),
		UserID:     event.UserID,
		Action:     event.Action,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
		Details:    details,
		IPAddress:  event.IPAddress,
	}
	if err := l.repo.Insert(ctx, entry); err != nil {
		log.Printf("audit: store event: %v", err)
	}
}

// MaskSensitive returns a copy of the details with sensitive fields
// replaced by a placeholder. Nested maps are masked recursively.
func MaskSensitive(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return nil
	}

	masked := make(map[string]interface{}, len(details))
	for key, value := range details {
		switch v := value.(type) {
		case map[string]interface{}:
			masked[key] = MaskSensitive(v)
		default:
			if isSensitiveField(key) {
				masked[key] = "******"
			} else {
				masked[key] = value
			}
		}
	}
	return masked
}

func isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if lower == field {
			return true
		}
	}
	return false
}
