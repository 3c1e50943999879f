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

var DeleteBookDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_delete_book_duration_ms",
	Help:    "Duration of DeleteBook in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(DeleteBookDuration)
}

func (i *implementation) DeleteBook(c *gin.Context) {
	start := time.Now()

	defer func() {
		DeleteBookDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	id, err := parseID(c)
	if log.ErrorBook(i.logger, log.DeleteBook, err, "Got invalid request", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("book_id", id))

	if err = i.booksUseCase.DeleteBook(ctx, id); err != nil {
		i.convertErr(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
