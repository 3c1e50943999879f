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

var DeleteAuthorDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_delete_author_duration_ms",
	Help:    "Duration of DeleteAuthor in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(DeleteAuthorDuration)
}

func (i *implementation) DeleteAuthor(c *gin.Context) {
	start := time.Now()

	defer func() {
		DeleteAuthorDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	id, err := parseID(c)
	if log.ErrorAuthor(i.logger, log.DeleteAuthor, err, "Got invalid request", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("author_id", id))

	if err = i.authorUseCase.DeleteAuthor(ctx, id); err != nil {
		i.convertErr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
