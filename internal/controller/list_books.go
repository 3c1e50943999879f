package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

var ListBooksDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_list_books_duration_ms",
	Help:    "Duration of ListBooks in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(ListBooksDuration)
}

func (i *implementation) ListBooks(c *gin.Context) {
	start := time.Now()

	defer func() {
		ListBooksDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	books, err := i.booksUseCase.ListBooks(ctx)
	if err != nil {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}

	log.InfoListBooks(i.logger, "Sent books", traceID, len(books))
	c.JSON(http.StatusOK, newBooksResponse(books))
}
