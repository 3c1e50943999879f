package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var GetAuthorDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_get_author_duration_ms",
	Help:    "Duration of GetAuthor in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(GetAuthorDuration)
}

func (i *implementation) GetAuthor(c *gin.Context) {
	start := time.Now()

	defer func() {
		GetAuthorDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	id, err := parseID(c)
	if log.ErrorAuthor(i.logger, log.GetAuthor, err, "Got invalid request", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("author_id", id))

	author, err := i.authorUseCase.GetAuthor(ctx, id)
	if err != nil {
		i.convertErr(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthorResponse(author))
}
