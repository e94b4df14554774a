package dto

// ApplyRequest selects the resume snapshot bound to the application. When
// ResumeID is omitted the candidate's most recent resume is used.
type ApplyRequest struct {
	ResumeID *uint `json:"resume_id"`
}

// AnswerDTO is one selected option in a test submission.
type AnswerDTO struct {
	QuestionID       uint `json:"question_id" binding:"required"`
	SelectedOptionID uint `json:"selected_option_id" binding:"required"`
}

// SubmitTestRequest is the candidate's full test submission.
type SubmitTestRequest struct {
	Answers []AnswerDTO `json:"answers" binding:"required,dive"`
}

// OptionCreateDTO is used within QuestionCreateDTO.
type OptionCreateDTO struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionCreateDTO is for a company adding a multiple-choice question to its job's test.
type QuestionCreateDTO struct {
	Text                string            `json:"text" binding:"required"`
	TestDurationMinutes int               `json:"test_duration_minutes" binding:"omitempty,min=1,max=600"`
	Options             []OptionCreateDTO `json:"options" binding:"required,min=2,dive"`
}

// ScheduleInterviewRequest carries the interview slot. Date is YYYY-MM-DD and Time is HH:MM.
type ScheduleInterviewRequest struct {
	InterviewDate string `json:"interview_date" binding:"required"`
	InterviewTime string `json:"interview_time" binding:"required"`
	MeetingURL    string `json:"meeting_url" binding:"omitempty,url"`
	Notes         string `json:"additional_notes"`
}

type RejectApplicationRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}
