package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bankportal/portal-backend/database"
	"github.com/bankportal/portal-backend/models"
	"github.com/bankportal/portal-backend/shared"
	"github.com/sirupsen/logrus"
)

// State store keys. The two submission kinds are persisted independently.
const (
	taskSubmissionsKey    = "taskSubmissions"
	meetingSubmissionsKey = "cashManagementSubmissions"
)

// currentSchemaVersion tags newly written submission lists. Version 1 is
// the legacy bare-array form without the envelope; upgrading it
// default-fills the fields that did not exist yet.
const currentSchemaVersion = 2

// storedEnvelope wraps a persisted submission list with its schema version.
type storedEnvelope struct {
	SchemaVersion int             `json:"schemaVersion"`
	Records       json.RawMessage `json:"records"`
}

// SubmissionService owns every submission record: it is the single writer
// for both the task-request and meeting-request lists. Lists are ordered
// most-recent-first and the full list is re-serialized synchronously on
// every mutation.
type SubmissionService struct {
	store   *database.StateStore
	mutex   sync.Mutex
	metrics *shared.ServiceMetrics
}

// NewSubmissionService creates a submission service over the state store.
func NewSubmissionService(store *database.StateStore) *SubmissionService {
	return &SubmissionService{
		store:   store,
		metrics: shared.NewServiceMetrics("SubmissionService"),
	}
}

// Metrics exposes the service's counters for registry wiring.
func (s *SubmissionService) Metrics() *shared.ServiceMetrics {
	return s.metrics
}

// AppendTask inserts a task submission at the head of the list and
// persists. The identifier and creation timestamp are assigned here when
// absent and are immutable afterwards; a missing status defaults to
// pending.
func (s *SubmissionService) AppendTask(ctx context.Context, submission *models.TaskSubmission) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	start := time.Now()
	submissions, err := s.loadTasksLocked(ctx)
	if err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return err
	}

	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	if submission.ID == "" {
		submission.ID = nextSubmissionID(submission.SubmittedAt, taskIDs(submissions))
	}
	if submission.Status == "" {
		submission.Status = models.TaskStatusPending
	}
	if !submission.Status.Valid() {
		s.metrics.RecordRequest(false, time.Since(start))
		return shared.ValidationError(
			fmt.Sprintf("invalid task status: %s", submission.Status),
			"SubmissionService", "append_task",
		)
	}

	updated := append([]models.TaskSubmission{*submission}, submissions...)
	if err := s.saveTasksLocked(ctx, updated); err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return err
	}

	s.metrics.RecordRequest(true, time.Since(start))
	logrus.WithFields(logrus.Fields{
		"service_name":  "SubmissionService",
		"submission_id": submission.ID,
		"team":          submission.SelectedGroup.ID,
		"total":         len(updated),
	}).Info("Task submission stored")

	return nil
}

// LoadTasks returns the full task list, most recent first. Creation
// timestamps are revived from their serialized string form.
func (s *SubmissionService) LoadTasks(ctx context.Context) ([]models.TaskSubmission, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.loadTasksLocked(ctx)
}

// UpdateTaskStatus replaces the status of the task with the given id and,
// when notes is non-empty, its employee notes. Every other field is left
// untouched. An unknown id is a no-op that returns the unchanged list.
func (s *SubmissionService) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, notes string) ([]models.TaskSubmission, error) {
	if !status.Valid() {
		return nil, shared.ValidationError(
			fmt.Sprintf("invalid task status: %s", status),
			"SubmissionService", "update_task_status",
		)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	submissions, err := s.loadTasksLocked(ctx)
	if err != nil {
		return nil, err
	}

	updated := false
	for i := range submissions {
		if submissions[i].ID != id {
			continue
		}
		submissions[i].Status = status
		if notes != "" {
			submissions[i].EmployeeNotes = notes
		}
		updated = true
		break
	}

	if !updated {
		logrus.WithFields(logrus.Fields{
			"service_name":  "SubmissionService",
			"submission_id": id,
		}).Warn("Status update for unknown task submission ignored")
		return submissions, nil
	}

	if err := s.saveTasksLocked(ctx, submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// AppendMeeting inserts a cash-management meeting request at the head of
// the list and persists.
func (s *SubmissionService) AppendMeeting(ctx context.Context, submission *models.CashManagementSubmission) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	start := time.Now()
	submissions, err := s.loadMeetingsLocked(ctx)
	if err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return err
	}

	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = time.Now().UTC()
	}
	if submission.ID == "" {
		submission.ID = nextSubmissionID(submission.SubmittedAt, meetingIDs(submissions))
	}
	if submission.Status == "" {
		submission.Status = models.MeetingStatusPending
	}
	if !submission.Status.Valid() {
		s.metrics.RecordRequest(false, time.Since(start))
		return shared.ValidationError(
			fmt.Sprintf("invalid meeting status: %s", submission.Status),
			"SubmissionService", "append_meeting",
		)
	}

	updated := append([]models.CashManagementSubmission{*submission}, submissions...)
	if err := s.saveMeetingsLocked(ctx, updated); err != nil {
		s.metrics.RecordRequest(false, time.Since(start))
		return err
	}

	s.metrics.RecordRequest(true, time.Since(start))
	logrus.WithFields(logrus.Fields{
		"service_name":  "SubmissionService",
		"submission_id": submission.ID,
		"company":       submission.CompanyName,
		"total":         len(updated),
	}).Info("Meeting submission stored")

	return nil
}

// LoadMeetings returns the full meeting-request list, most recent first.
func (s *SubmissionService) LoadMeetings(ctx context.Context) ([]models.CashManagementSubmission, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.loadMeetingsLocked(ctx)
}

// UpdateMeetingStatus mirrors UpdateTaskStatus for meeting requests.
func (s *SubmissionService) UpdateMeetingStatus(ctx context.Context, id string, status models.MeetingStatus, notes string) ([]models.CashManagementSubmission, error) {
	if !status.Valid() {
		return nil, shared.ValidationError(
			fmt.Sprintf("invalid meeting status: %s", status),
			"SubmissionService", "update_meeting_status",
		)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	submissions, err := s.loadMeetingsLocked(ctx)
	if err != nil {
		return nil, err
	}

	updated := false
	for i := range submissions {
		if submissions[i].ID != id {
			continue
		}
		submissions[i].Status = status
		if notes != "" {
			submissions[i].EmployeeNotes = notes
		}
		updated = true
		break
	}

	if !updated {
		logrus.WithFields(logrus.Fields{
			"service_name":  "SubmissionService",
			"submission_id": id,
		}).Warn("Status update for unknown meeting submission ignored")
		return submissions, nil
	}

	if err := s.saveMeetingsLocked(ctx, submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionService) loadTasksLocked(ctx context.Context) ([]models.TaskSubmission, error) {
	version, records, err := s.loadEnvelope(ctx, taskSubmissionsKey)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return []models.TaskSubmission{}, nil
	}

	var submissions []models.TaskSubmission
	if err := strictUnmarshal(records, &submissions); err != nil {
		return nil, shared.StorageCorruptionError(taskSubmissionsKey, err)
	}

	if version < currentSchemaVersion {
		for i := range submissions {
			upgradeTask(&submissions[i])
		}
	}
	return submissions, nil
}

func (s *SubmissionService) saveTasksLocked(ctx context.Context, submissions []models.TaskSubmission) error {
	return s.saveEnvelope(ctx, taskSubmissionsKey, submissions)
}

func (s *SubmissionService) loadMeetingsLocked(ctx context.Context) ([]models.CashManagementSubmission, error) {
	version, records, err := s.loadEnvelope(ctx, meetingSubmissionsKey)
	if err != nil {
		return nil, err
	}
	if records == nil {
		return []models.CashManagementSubmission{}, nil
	}

	var submissions []models.CashManagementSubmission
	if err := strictUnmarshal(records, &submissions); err != nil {
		return nil, shared.StorageCorruptionError(meetingSubmissionsKey, err)
	}

	if version < currentSchemaVersion {
		for i := range submissions {
			upgradeMeeting(&submissions[i])
		}
	}
	return submissions, nil
}

func (s *SubmissionService) saveMeetingsLocked(ctx context.Context, submissions []models.CashManagementSubmission) error {
	return s.saveEnvelope(ctx, meetingSubmissionsKey, submissions)
}

// loadEnvelope reads a stored list and returns its schema version and raw
// record array. A bare JSON array is the legacy version-1 form; anything
// else must be a well-formed envelope. A nil record slice means the key has
// never been written.
func (s *SubmissionService) loadEnvelope(ctx context.Context, key string) (int, json.RawMessage, error) {
	value, exists, err := s.store.Get(ctx, key)
	if err != nil {
		return 0, nil, shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_READ", "SubmissionService", "load", true)
	}
	if !exists {
		return currentSchemaVersion, nil, nil
	}

	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "[") {
		return 1, json.RawMessage(trimmed), nil
	}

	var envelope storedEnvelope
	if err := strictUnmarshal([]byte(trimmed), &envelope); err != nil {
		return 0, nil, shared.StorageCorruptionError(key, err)
	}
	if envelope.SchemaVersion < 1 || envelope.SchemaVersion > currentSchemaVersion {
		return 0, nil, shared.StorageCorruptionError(key, fmt.Errorf("unsupported schema version %d", envelope.SchemaVersion))
	}
	return envelope.SchemaVersion, envelope.Records, nil
}

func (s *SubmissionService) saveEnvelope(ctx context.Context, key string, records interface{}) error {
	encodedRecords, err := json.Marshal(records)
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_ENCODE", "SubmissionService", "save", false)
	}

	payload, err := json.Marshal(storedEnvelope{
		SchemaVersion: currentSchemaVersion,
		Records:       encodedRecords,
	})
	if err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_ENCODE", "SubmissionService", "save", false)
	}

	if err := s.store.Set(ctx, key, string(payload)); err != nil {
		return shared.WrapError(err, shared.ErrorCategoryStorage, "STATE_WRITE", "SubmissionService", "save", true)
	}
	return nil
}

// upgradeTask is the version 1 -> 2 transform: records written before the
// triage fields existed get a pending status and empty employee notes.
func upgradeTask(submission *models.TaskSubmission) {
	if submission.Status == "" {
		submission.Status = models.TaskStatusPending
	}
}

func upgradeMeeting(submission *models.CashManagementSubmission) {
	if submission.Status == "" {
		submission.Status = models.MeetingStatusPending
	}
}

// strictUnmarshal rejects unknown fields so corrupted or foreign payloads
// surface as corruption errors instead of silently dropping data.
func strictUnmarshal(data []byte, target interface{}) error {
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return err
	}
	return nil
}

// nextSubmissionID derives an identifier from the creation timestamp in
// milliseconds, bumping past collisions so identifiers stay unique within
// the store.
func nextSubmissionID(submittedAt time.Time, existing map[string]bool) string {
	candidate := submittedAt.UnixMilli()
	for existing[strconv.FormatInt(candidate, 10)] {
		candidate++
	}
	return strconv.FormatInt(candidate, 10)
}

func taskIDs(submissions []models.TaskSubmission) map[string]bool {
	ids := make(map[string]bool, len(submissions))
	for _, submission := range submissions {
		ids[submission.ID] = true
	}
	return ids
}

func meetingIDs(submissions []models.CashManagementSubmission) map[string]bool {
	ids := make(map[string]bool, len(submissions))
	for _, submission := range submissions {
		ids[submission.ID] = true
	}
	return ids
}
