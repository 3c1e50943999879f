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

var CreateBookDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_create_book_duration_ms",
	Help:    "Duration of CreateBook in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(CreateBookDuration)
}

func (i *implementation) CreateBook(c *gin.Context) {
	start := time.Now()

	defer func() {
		CreateBookDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	payload, err := decodeBook(c)
	if log.ErrorCreateBook(i.logger, err, "Got invalid request", traceID, "", 0) {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}

	book, err := i.booksUseCase.CreateBook(ctx, payload)
	if err != nil {
		i.convertErr(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/books/%d", book.ID))
	c.JSON(http.StatusCreated, newBookResponse(book))
}
