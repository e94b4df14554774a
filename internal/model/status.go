package model

import (
	"database/sql/driver"
	"fmt"
)

// ApplicationStatus is the company-facing state of an application. Assessment
// progress is tracked separately in TestStatus and never moves this field.
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "pending"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
	ApplicationWithdrawn ApplicationStatus = "withdrawn"
)

type ApplicationEvent string

const (
	EventWithdraw ApplicationEvent = "withdraw"
	EventAccept   ApplicationEvent = "accept"
	EventReject   ApplicationEvent = "reject"
)

var applicationTransitions = map[ApplicationStatus]map[ApplicationEvent]ApplicationStatus{
	ApplicationPending: {
		EventWithdraw: ApplicationWithdrawn,
		EventAccept:   ApplicationAccepted,
		EventReject:   ApplicationRejected,
	},
}

// IllegalTransitionError reports an event that the current state does not accept.
type IllegalTransitionError struct {
	From  string
	Event string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s on %s", e.Event, e.From)
}

func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch status := ApplicationStatus(s); status {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected, ApplicationWithdrawn:
		return status, nil
	default:
		return "", fmt.Errorf("unknown application status %q", s)
	}
}

// Next returns the state reached by applying event, or an *IllegalTransitionError.
func (s ApplicationStatus) Next(event ApplicationEvent) (ApplicationStatus, error) {
	if next, ok := applicationTransitions[s][event]; ok {
		return next, nil
	}
	return s, &IllegalTransitionError{From: string(s), Event: string(event)}
}

// IsActive reports whether the application blocks a new apply for the same job.
func (s ApplicationStatus) IsActive() bool {
	return s == ApplicationPending || s == ApplicationAccepted
}

func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected || s == ApplicationWithdrawn
}

func (s ApplicationStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *ApplicationStatus) Scan(value any) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	parsed, err := ParseApplicationStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// TestStatus tracks the candidate's single assessment for a job.
type TestStatus string

const (
	TestNotStarted TestStatus = "not_started"
	TestInProgress TestStatus = "in_progress"
	TestCompleted  TestStatus = "completed"
	TestExpired    TestStatus = "expired"
)

type TestEvent string

const (
	EventStartTest    TestEvent = "start"
	EventCompleteTest TestEvent = "complete"
	EventExpireTest   TestEvent = "expire"
)

var testTransitions = map[TestStatus]map[TestEvent]TestStatus{
	TestNotStarted: {
		EventStartTest: TestInProgress,
	},
	TestInProgress: {
		EventCompleteTest: TestCompleted,
		EventExpireTest:   TestExpired,
	},
}

func ParseTestStatus(s string) (TestStatus, error) {
	switch status := TestStatus(s); status {
	case TestNotStarted, TestInProgress, TestCompleted, TestExpired:
		return status, nil
	default:
		return "", fmt.Errorf("unknown test status %q", s)
	}
}

func (s TestStatus) Next(event TestEvent) (TestStatus, error) {
	if next, ok := testTransitions[s][event]; ok {
		return next, nil
	}
	return s, &IllegalTransitionError{From: string(s), Event: string(event)}
}

// IsFinal reports whether the test has been graded, either by submission or by expiry.
func (s TestStatus) IsFinal() bool {
	return s == TestCompleted || s == TestExpired
}

func (s TestStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *TestStatus) Scan(value any) error {
	raw, err := scanString(value)
	if err != nil {
		return err
	}
	parsed, err := ParseTestStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func scanString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported status column type %T", value)
	}
}
