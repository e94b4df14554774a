package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/irshad/hiring/internal/dto"
	"github.com/rs/zerolog/log"
)

// Headers set by the upstream identity provider after it authenticated the caller.
const (
	CandidateHeader = "X-Candidate-ID"
	CompanyHeader   = "X-Company-ID"

	candidateKey = "candidateID"
	companyKey   = "companyID"
)

// CandidateIdentity requires a candidate identity on the request.
func CandidateIdentity() gin.HandlerFunc {
	return identity(CandidateHeader, candidateKey)
}

// CompanyIdentity requires a company identity on the request.
func CompanyIdentity() gin.HandlerFunc {
	return identity(CompanyHeader, companyKey)
}

func identity(header, key string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw := strings.TrimSpace(ctx.GetHeader(header))
		id, err := strconv.ParseUint(raw, 10, 32)
		if raw == "" || err != nil || id == 0 {
			log.Warn().Str("header", header).Str("path", ctx.FullPath()).Msg("Missing or invalid identity header")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    "unauthorized",
				Message: "missing or invalid " + header + " header",
			})
			return
		}
		ctx.Set(key, uint(id))
		ctx.Next()
	}
}

func CandidateID(ctx *gin.Context) uint {
	return ctx.GetUint(candidateKey)
}

func CompanyID(ctx *gin.Context) uint {
	return ctx.GetUint(companyKey)
}
