package model

import "time"

// SubmissionStatus is the review state of a submission.
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "Pending"
	SubmissionStatusApproved SubmissionStatus = "Approved"
	SubmissionStatusRejected SubmissionStatus = "Rejected"
)

// IsValid reports whether s is one of the known statuses.
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether s is a final review state.
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusRejected
}

// DocType is the kind of identity document being verified.
type DocType string

const (
	DocTypeAadhaar        DocType = "Aadhaar"
	DocTypePAN            DocType = "PAN"
	DocTypeDrivingLicense DocType = "DrivingLicense"
)

func (d DocType) IsValid() bool {
	switch d {
	case DocTypeAadhaar, DocTypePAN, DocTypeDrivingLicense:
		return true
	}
	return false
}

// ValidationChecks holds the document-level validation sub-results returned
// by the verification service at extraction time.
type ValidationChecks struct {
	IsTampered            bool    `json:"isTampered"`
	TamperingConfidence   float64 `json:"tamperingConfidence"`
	IsConsistent          bool    `json:"isConsistent"`
	ConsistencyConfidence float64 `json:"consistencyConfidence"`
}

// FraudChecks holds the fraud-analysis sub-results.
type FraudChecks struct {
	NameMatchScore float64 `json:"nameMatchScore"`
	IsDuplicate    bool    `json:"isDuplicate"`
}

// Submission is one user's document-verification attempt and its outcome.
// Everything except Status and UpdatedAt is write-once at creation.
type Submission struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	UserName         string            `json:"userName"`
	DocType          DocType           `json:"docType"`
	Status           SubmissionStatus  `json:"status"`
	FraudScore       float64           `json:"fraudScore"`
	RiskReasons      []string          `json:"riskReasons"`
	ExtractedText    map[string]string `json:"extractedText"`
	ValidationChecks ValidationChecks  `json:"validationChecks"`
	FraudChecks      FraudChecks       `json:"fraudChecks"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// SubmissionSummary is the reduced projection returned to the submitting user.
// Sensitive extracted fields and validation internals stay server-side.
type SubmissionSummary struct {
	ID          string           `json:"id"`
	UserName    string           `json:"userName"`
	DocType     DocType          `json:"docType"`
	Status      SubmissionStatus `json:"status"`
	FraudScore  float64          `json:"fraudScore"`
	RiskReasons []string         `json:"riskReasons"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// User is a self-service principal.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Photo        string    `json:"photo"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Admin is a reviewer principal. AdminID is the out-of-band issued
// identifier that gates admin registration.
type Admin struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AdminID      string    `json:"adminId"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
