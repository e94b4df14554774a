package company

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irshad/hiring/internal/controller/response"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/middleware"
	"github.com/irshad/hiring/internal/service"
)

type CompanyController struct {
	questionService  service.QuestionService
	rankingService   service.RankingService
	interviewService service.InterviewService
}

func NewCompanyController(
	questionService service.QuestionService,
	rankingService service.RankingService,
	interviewService service.InterviewService,
) *CompanyController {
	return &CompanyController{
		questionService:  questionService,
		rankingService:   rankingService,
		interviewService: interviewService,
	}
}

// AddQuestion godoc
// @Summary Add a multiple-choice question to a job's assessment
// @Description Exactly one option must be correct. The first question's duration sets the test duration.
// @Tags Company - Assessment
// @Accept json
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param job_id path int true "Job ID"
// @Param question body dto.QuestionCreateDTO true "Question with its options"
// @Success 201 {object} dto.QuestionAdminDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid question"
// @Failure 403 {object} dto.ErrorResponse "Job owned by another company"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /company/jobs/{job_id}/questions [post]
func (c *CompanyController) AddQuestion(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, err)
		return
	}

	question, err := c.questionService.AddQuestion(ctx.Request.Context(), middleware.CompanyID(ctx), jobID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, question)
}

// ListQuestions godoc
// @Summary List a job's assessment questions with answers
// @Tags Company - Assessment
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param job_id path int true "Job ID"
// @Success 200 {array} dto.QuestionAdminDTO
// @Failure 403 {object} dto.ErrorResponse "Job owned by another company"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /company/jobs/{job_id}/questions [get]
func (c *CompanyController) ListQuestions(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	questions, err := c.questionService.ListQuestions(ctx.Request.Context(), middleware.CompanyID(ctx), jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// ListApplicants godoc
// @Summary Rank a job's applicants
// @Description Orders applicants by ranking score or test score, highest first; ties go to the earlier application.
// @Tags Company - Applicants
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param job_id path int true "Job ID"
// @Param sort query string false "ranking (default) or test_score"
// @Success 200 {array} dto.ApplicantDTO
// @Failure 400 {object} dto.ErrorResponse "Unknown sort key"
// @Failure 403 {object} dto.ErrorResponse "Job owned by another company"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /company/jobs/{job_id}/applicants [get]
func (c *CompanyController) ListApplicants(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	key, err := service.ParseSortKey(ctx.Query("sort"))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	applicants, err := c.rankingService.RankApplicants(ctx.Request.Context(), middleware.CompanyID(ctx), jobID, key)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, applicants)
}

// ScheduleInterview godoc
// @Summary Schedule an interview for an application
// @Tags Company - Interviews
// @Accept json
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param job_id path int true "Job ID"
// @Param application_id path int true "Application ID"
// @Param interview body dto.ScheduleInterviewRequest true "Interview slot"
// @Success 201 {object} dto.InterviewResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date or time"
// @Failure 403 {object} dto.ErrorResponse "Job owned by another company"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application already decided"
// @Router /company/jobs/{job_id}/applications/{application_id}/interviews [post]
func (c *CompanyController) ScheduleInterview(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	applicationID, ok := response.PathID(ctx, "application_id")
	if !ok {
		return
	}
	var req dto.ScheduleInterviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, err)
		return
	}

	interview, err := c.interviewService.Schedule(ctx.Request.Context(), middleware.CompanyID(ctx), jobID, applicationID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, interview)
}

// ListInterviews godoc
// @Summary List an application's interviews, most recent first
// @Tags Company - Interviews
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param job_id path int true "Job ID"
// @Param application_id path int true "Application ID"
// @Success 200 {array} dto.InterviewResponse
// @Failure 403 {object} dto.ErrorResponse "Job owned by another company"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /company/jobs/{job_id}/applications/{application_id}/interviews [get]
func (c *CompanyController) ListInterviews(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	applicationID, ok := response.PathID(ctx, "application_id")
	if !ok {
		return
	}
	interviews, err := c.interviewService.ListInterviews(ctx.Request.Context(), middleware.CompanyID(ctx), jobID, applicationID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, interviews)
}

// CurrentInterview godoc
// @Summary Get an application's most recent interview
// @Tags Company - Interviews
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param job_id path int true "Job ID"
// @Param application_id path int true "Application ID"
// @Success 200 {object} dto.InterviewResponse
// @Failure 404 {object} dto.ErrorResponse "No interview scheduled"
// @Router /company/jobs/{job_id}/applications/{application_id}/interviews/current [get]
func (c *CompanyController) CurrentInterview(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	applicationID, ok := response.PathID(ctx, "application_id")
	if !ok {
		return
	}
	interview, err := c.interviewService.CurrentInterview(ctx.Request.Context(), middleware.CompanyID(ctx), jobID, applicationID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, interview)
}

// AcceptCandidate godoc
// @Summary Accept a candidate's pending application
// @Description Without job_id the candidate must have exactly one pending application with this company.
// @Tags Company - Decisions
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param candidate_id path int true "Candidate ID"
// @Param job_id query int false "Job ID"
// @Success 200 {object} dto.DecisionResponse
// @Failure 403 {object} dto.ErrorResponse "Job owned by another company"
// @Failure 404 {object} dto.ErrorResponse "No pending application"
// @Failure 409 {object} dto.ErrorResponse "Already decided, or several pending applications"
// @Router /company/candidates/{candidate_id}/accept [post]
func (c *CompanyController) AcceptCandidate(ctx *gin.Context) {
	candidateID, ok := response.PathID(ctx, "candidate_id")
	if !ok {
		return
	}
	jobID, ok := response.OptionalQueryID(ctx, "job_id")
	if !ok {
		return
	}

	decision, err := c.interviewService.Accept(ctx.Request.Context(), middleware.CompanyID(ctx), candidateID, jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, decision)
}

// RejectCandidate godoc
// @Summary Reject a candidate's pending application with feedback
// @Tags Company - Decisions
// @Accept json
// @Produce json
// @Param X-Company-ID header int true "Authenticated company id"
// @Param job_id path int true "Job ID"
// @Param candidate_id path int true "Candidate ID"
// @Param rejection body dto.RejectApplicationRequest true "Feedback for the candidate"
// @Success 200 {object} dto.DecisionResponse
// @Failure 400 {object} dto.ErrorResponse "Feedback missing"
// @Failure 403 {object} dto.ErrorResponse "Job owned by another company"
// @Failure 404 {object} dto.ErrorResponse "No application for this job"
// @Failure 409 {object} dto.ErrorResponse "Application already decided"
// @Router /company/jobs/{job_id}/candidates/{candidate_id}/reject [post]
func (c *CompanyController) RejectCandidate(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	candidateID, ok := response.PathID(ctx, "candidate_id")
	if !ok {
		return
	}
	var req dto.RejectApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, err)
		return
	}

	decision, err := c.interviewService.Reject(ctx.Request.Context(), middleware.CompanyID(ctx), candidateID, jobID, req.Feedback)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, decision)
}
