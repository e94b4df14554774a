package controller

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/irshad/hiring/internal/controller/candidate"
	"github.com/irshad/hiring/internal/controller/company"
	"github.com/irshad/hiring/internal/middleware"
)

type Router struct {
	candidateCtrl *candidate.CandidateController
	companyCtrl   *company.CompanyController
	limiter       middleware.Limiter
	limitPerMin   int
}

// NewRouter wires the controllers. Apply, test start and submit are rate limited to
// limitPerMin requests per candidate; a non-positive limit disables limiting.
func NewRouter(
	candidateCtrl *candidate.CandidateController,
	companyCtrl *company.CompanyController,
	limiter middleware.Limiter,
	limitPerMin int,
) *Router {
	return &Router{
		candidateCtrl: candidateCtrl,
		companyCtrl:   companyCtrl,
		limiter:       limiter,
		limitPerMin:   limitPerMin,
	}
}

func (r *Router) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")

	candidates := apiV1.Group("", middleware.CandidateIdentity())
	{
		candidates.GET("/applications", r.candidateCtrl.ListApplications)

		jobs := candidates.Group("/jobs/:job_id")
		jobs.POST("/apply", r.rateLimit("apply"), r.candidateCtrl.Apply)
		jobs.POST("/withdraw", r.candidateCtrl.Withdraw)
		jobs.GET("/application", r.candidateCtrl.GetApplication)

		jobs.POST("/test/start", r.rateLimit("start"), r.candidateCtrl.StartTest)
		jobs.GET("/test", r.candidateCtrl.GetTest)
		jobs.GET("/test/attempt", r.candidateCtrl.GetAttempt)
		jobs.POST("/test/submit", r.rateLimit("submit"), r.candidateCtrl.SubmitTest)
		jobs.POST("/test/expire", r.candidateCtrl.ExpireTest)
	}

	companies := apiV1.Group("/company", middleware.CompanyIdentity())
	{
		jobs := companies.Group("/jobs/:job_id")
		jobs.POST("/questions", r.companyCtrl.AddQuestion)
		jobs.GET("/questions", r.companyCtrl.ListQuestions)
		jobs.GET("/applicants", r.companyCtrl.ListApplicants)

		jobs.POST("/applications/:application_id/interviews", r.companyCtrl.ScheduleInterview)
		jobs.GET("/applications/:application_id/interviews", r.companyCtrl.ListInterviews)
		jobs.GET("/applications/:application_id/interviews/current", r.companyCtrl.CurrentInterview)

		jobs.POST("/candidates/:candidate_id/reject", r.companyCtrl.RejectCandidate)
		companies.POST("/candidates/:candidate_id/accept", r.companyCtrl.AcceptCandidate)
	}
}

func (r *Router) rateLimit(scope string) gin.HandlerFunc {
	if r.limiter == nil || r.limitPerMin <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	return middleware.RateLimit(r.limiter, scope, r.limitPerMin, time.Minute)
}
