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

var UpdateAuthorDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_update_author_duration_ms",
	Help:    "Duration of UpdateAuthor in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(UpdateAuthorDuration)
}

func (i *implementation) UpdateAuthor(c *gin.Context) {
	start := time.Now()

	defer func() {
		UpdateAuthorDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	id, err := parseID(c)
	if log.ErrorUpdateAuthor(i.logger, err, "Got invalid id", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("author_id", id))

	payload, err := decodeAuthor(c)
	if log.ErrorUpdateAuthor(i.logger, err, "Got invalid request", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}

	author, err := i.authorUseCase.UpdateAuthor(ctx, id, payload)
	if err != nil {
		i.convertErr(c, err)
		return
	}

	c.JSON(http.StatusOK, newAuthorResponse(author))
}
