package models

import "time"

// TaskStatus is the triage state of a task submission. Transitions are
// unordered: employees may move a submission between any two states.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusReviewed  TaskStatus = "reviewed"
	TaskStatusAssigned  TaskStatus = "assigned"
	TaskStatusCompleted TaskStatus = "completed"
)

// Valid reports whether s is one of the task status values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusReviewed, TaskStatusAssigned, TaskStatusCompleted:
		return true
	}
	return false
}

// MeetingStatus is the triage state of a cash-management meeting request.
type MeetingStatus string

const (
	MeetingStatusPending   MeetingStatus = "pending"
	MeetingStatusReviewed  MeetingStatus = "reviewed"
	MeetingStatusScheduled MeetingStatus = "scheduled"
	MeetingStatusCompleted MeetingStatus = "completed"
)

func (s MeetingStatus) Valid() bool {
	switch s {
	case MeetingStatusPending, MeetingStatusReviewed, MeetingStatusScheduled, MeetingStatusCompleted:
		return true
	}
	return false
}

// TaskSubmission is a client request for bank-team engagement. The ID is a
// millisecond-timestamp string assigned at append time and never changes.
// The document content maps hold the extracted text of uploaded PDFs, keyed
// by filename, and are frozen once the submission is stored.
type TaskSubmission struct {
	ID                       string            `json:"id"`
	BriefDescription         string            `json:"briefDescription"`
	SelectedGroup            BankGroup         `json:"selectedGroup"`
	DetailedDescription      string            `json:"detailedDescription"`
	HasPriorRelationship     bool              `json:"hasPriorRelationship"`
	PriorRelationship        string            `json:"priorRelationship"`
	ContactPerson            string            `json:"contactPerson"`
	ContactEmail             string            `json:"contactEmail"`
	ContactPhone             string            `json:"contactPhone"`
	CompanyName              string            `json:"companyName"`
	IsSponsor                bool              `json:"isSponsor"`
	AUM                      string            `json:"aum"`
	FundStrategy             string            `json:"fundStrategy"`
	DealDocuments            []string          `json:"dealDocuments"`
	InvestorDocuments        []string          `json:"investorDocuments"`
	DealDocumentsContent     map[string]string `json:"dealDocumentsContent,omitempty"`
	InvestorDocumentsContent map[string]string `json:"investorDocumentsContent,omitempty"`
	OtherProblems            string            `json:"otherProblems"`
	FutureTeams              string            `json:"futureTeams"`
	SubmittedAt              time.Time         `json:"submittedAt"`
	Status                   TaskStatus        `json:"status,omitempty"`
	EmployeeNotes            string            `json:"employeeNotes,omitempty"`
}

// MeetingDocuments groups the five named document-name lists collected on a
// cash-management meeting request.
type MeetingDocuments struct {
	FinancialDocuments    []string `json:"financialDocuments"`
	BankingInfrastructure []string `json:"bankingInfrastructure"`
	CashFlowOperations    []string `json:"cashFlowOperations"`
	InternalControls      []string `json:"internalControls"`
	TreasurySystems       []string `json:"treasurySystems"`
}

// CashManagementSubmission is a client request for a cash-management
// consultation meeting.
type CashManagementSubmission struct {
	ID              string           `json:"id"`
	CompanyName     string           `json:"companyName"`
	ContactPerson   string           `json:"contactPerson"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	MeetingDate     string           `json:"meetingDate"`
	Documents       MeetingDocuments `json:"documents"`
	AdditionalNotes string           `json:"additionalNotes"`
	SubmittedAt     time.Time        `json:"submittedAt"`
	Status          MeetingStatus    `json:"status,omitempty"`
	EmployeeNotes   string           `json:"employeeNotes,omitempty"`
}
