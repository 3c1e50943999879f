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

var GetBookDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_get_book_duration_ms",
	Help:    "Duration of GetBook in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(GetBookDuration)
}

func (i *implementation) GetBook(c *gin.Context) {
	start := time.Now()

	defer func() {
		GetBookDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	id, err := parseID(c)
	if log.ErrorBook(i.logger, log.GetBook, err, "Got invalid request", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("book_id", id))

	book, err := i.booksUseCase.GetBook(ctx, id)
	if err != nil {
		i.convertErr(c, err)
		return
	}

	c.JSON(http.StatusOK, newBookResponse(book))
}
