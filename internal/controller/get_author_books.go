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

var GetAuthorBooksDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_get_author_books_duration_ms",
	Help:    "Duration of GetAuthorBooks in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(GetAuthorBooksDuration)
}

func (i *implementation) GetAuthorBooks(c *gin.Context) {
	start := time.Now()

	defer func() {
		GetAuthorBooksDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	id, err := parseID(c)
	if log.ErrorAuthor(i.logger, log.GetAuthorBooks, err, "Got invalid request", traceID, id) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}
	span.SetAttributes(attribute.Int64("author_id", id))

	books, err := i.authorUseCase.GetAuthorBooks(ctx, id)
	if err != nil {
		i.convertErr(c, err)
		return
	}

	log.InfoAuthor(i.logger, log.GetAuthorBooks, "Sent books of author", traceID, id)
	c.JSON(http.StatusOK, newBooksResponse(books))
}
