package candidate

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irshad/hiring/internal/controller/response"
	"github.com/irshad/hiring/internal/dto"
	"github.com/irshad/hiring/internal/middleware"
	"github.com/irshad/hiring/internal/service"
	"github.com/rs/zerolog/log"
)

type CandidateController struct {
	applicationService service.ApplicationService
	assessmentService  service.AssessmentService
}

func NewCandidateController(applicationService service.ApplicationService, assessmentService service.AssessmentService) *CandidateController {
	return &CandidateController{
		applicationService: applicationService,
		assessmentService:  assessmentService,
	}
}

// Apply godoc
// @Summary Apply to a job
// @Description Scores the candidate's resume against the job and records a pending application. A rejected or withdrawn application may be replaced by reapplying.
// @Tags Candidate - Applications
// @Accept json
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Param apply_data body dto.ApplyRequest false "Resume selection; defaults to the latest resume"
// @Success 201 {object} dto.ApplicationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid job id or body"
// @Failure 404 {object} dto.ErrorResponse "Job, candidate or resume not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Failure 502 {object} dto.ErrorResponse "Score service unavailable"
// @Router /jobs/{job_id}/apply [post]
func (c *CandidateController) Apply(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	var req dto.ApplyRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.BadRequest(ctx, err)
			return
		}
	}

	app, err := c.applicationService.Apply(ctx.Request.Context(), middleware.CandidateID(ctx), jobID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, app)
}

// Withdraw godoc
// @Summary Withdraw a pending application
// @Tags Candidate - Applications
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 403 {object} dto.ErrorResponse "Application already accepted"
// @Failure 404 {object} dto.ErrorResponse "No application for this job"
// @Failure 409 {object} dto.ErrorResponse "Application already rejected or withdrawn"
// @Router /jobs/{job_id}/withdraw [post]
func (c *CandidateController) Withdraw(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	app, err := c.applicationService.Withdraw(ctx.Request.Context(), middleware.CandidateID(ctx), jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, app)
}

// GetApplication godoc
// @Summary Get the candidate's application for a job
// @Tags Candidate - Applications
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 404 {object} dto.ErrorResponse "No application for this job"
// @Router /jobs/{job_id}/application [get]
func (c *CandidateController) GetApplication(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	app, err := c.applicationService.Get(ctx.Request.Context(), middleware.CandidateID(ctx), jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, app)
}

// ListApplications godoc
// @Summary List the candidate's applications
// @Tags Candidate - Applications
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Success 200 {array} dto.ApplicationResponse
// @Router /applications [get]
func (c *CandidateController) ListApplications(ctx *gin.Context) {
	apps, err := c.applicationService.ListForCandidate(ctx.Request.Context(), middleware.CandidateID(ctx))
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, apps)
}

// StartTest godoc
// @Summary Start the job's assessment
// @Description Opens the single timed attempt and returns the questions with shuffled options.
// @Tags Candidate - Assessment
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Success 201 {object} dto.TestSessionDTO
// @Failure 404 {object} dto.ErrorResponse "No pending application or job has no questions"
// @Failure 409 {object} dto.ErrorResponse "Test already started"
// @Router /jobs/{job_id}/test/start [post]
func (c *CandidateController) StartTest(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	session, err := c.assessmentService.Start(ctx.Request.Context(), middleware.CandidateID(ctx), jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	log.Info().Uint("candidateID", middleware.CandidateID(ctx)).Uint("jobID", jobID).Time("expiresAt", session.ExpiresAt).Msg("Test started")
	ctx.JSON(http.StatusCreated, session)
}

// GetTest godoc
// @Summary Get the questions of a running assessment
// @Tags Candidate - Assessment
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Success 200 {object} dto.TestSessionDTO
// @Failure 404 {object} dto.ErrorResponse "Test not started"
// @Failure 409 {object} dto.ErrorResponse "Test already submitted or expired"
// @Router /jobs/{job_id}/test [get]
func (c *CandidateController) GetTest(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	session, err := c.assessmentService.Questions(ctx.Request.Context(), middleware.CandidateID(ctx), jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, session)
}

// GetAttempt godoc
// @Summary Get the state of the candidate's attempt
// @Tags Candidate - Assessment
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Success 200 {object} dto.AttemptStateDTO
// @Failure 404 {object} dto.ErrorResponse "Test not started"
// @Router /jobs/{job_id}/test/attempt [get]
func (c *CandidateController) GetAttempt(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	state, err := c.assessmentService.Attempt(ctx.Request.Context(), middleware.CandidateID(ctx), jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, state)
}

// SubmitTest godoc
// @Summary Submit the assessment answers
// @Tags Candidate - Assessment
// @Accept json
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Param answers body dto.SubmitTestRequest true "Selected options"
// @Success 200 {object} dto.TestResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body"
// @Failure 404 {object} dto.ErrorResponse "Test not started"
// @Failure 409 {object} dto.ErrorResponse "Test already submitted or expired"
// @Router /jobs/{job_id}/test/submit [post]
func (c *CandidateController) SubmitTest(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	var req dto.SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.BadRequest(ctx, err)
		return
	}

	result, err := c.assessmentService.Submit(ctx.Request.Context(), middleware.CandidateID(ctx), jobID, req)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ExpireTest godoc
// @Summary End the assessment early
// @Description Closes the attempt without answers. The test is recorded as expired with a score of zero.
// @Tags Candidate - Assessment
// @Produce json
// @Param X-Candidate-ID header int true "Authenticated candidate id"
// @Param job_id path int true "Job ID"
// @Success 200 {object} dto.TestResultDTO
// @Failure 404 {object} dto.ErrorResponse "Test not started"
// @Failure 409 {object} dto.ErrorResponse "Test already submitted"
// @Router /jobs/{job_id}/test/expire [post]
func (c *CandidateController) ExpireTest(ctx *gin.Context) {
	jobID, ok := response.PathID(ctx, "job_id")
	if !ok {
		return
	}
	result, err := c.assessmentService.Expire(ctx.Request.Context(), middleware.CandidateID(ctx), jobID)
	if err != nil {
		response.Error(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}
