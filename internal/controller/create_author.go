package controller

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

var CreateAuthorDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_create_author_duration_ms",
	Help:    "Duration of CreateAuthor in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(CreateAuthorDuration)
}

func (i *implementation) CreateAuthor(c *gin.Context) {
	start := time.Now()

	defer func() {
		CreateAuthorDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	payload, err := decodeAuthor(c)
	if log.ErrorCreateAuthor(i.logger, err, "Got invalid request", traceID, "") {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}

	author, err := i.authorUseCase.CreateAuthor(ctx, payload)
	if err != nil {
		i.convertErr(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/authors/%d", author.ID))
	c.JSON(http.StatusCreated, newAuthorResponse(author))
}
