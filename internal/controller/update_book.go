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

var UpdateBookDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_update_book_duration_ms",
	Help:    "Duration of UpdateBook in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(UpdateBookDuration)
}

func (i *implementation) UpdateBook(c *gin.Context) {
	start := time.Now()

	defer func() {
		UpdateBookDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	id, err := parseID(c)
	if log.ErrorUpdateBook(i.logger, err, "Got invalid id", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("book_id", id))

	payload, err := decodeBook(c)
	if log.ErrorUpdateBook(i.logger, err, "Got invalid request", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}

	book, err := i.booksUseCase.UpdateBook(ctx, id, payload)
	if err != nil {
		i.convertErr(c, err)
		return
	}

	c.JSON(http.StatusOK, newBookResponse(book))
}
