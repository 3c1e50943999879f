package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/internal/log"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

var ListAuthorsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
	Name:    "catalog_list_authors_duration_ms",
	Help:    "Duration of ListAuthors in ms",
	Buckets: prometheus.DefBuckets,
})

func init() {
	prometheus.MustRegister(ListAuthorsDuration)
}

func (i *implementation) ListAuthors(c *gin.Context) {
	start := time.Now()

	defer func() {
		ListAuthorsDuration.Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx := c.Request.Context()
	span := trace.SpanFromContext(ctx)
	traceID := span.SpanContext().TraceID().String()

	authors, err := i.authorUseCase.ListAuthors(ctx)
	if err != nil {
		span.RecordError(err)
		i.convertErr(c, err)
		return
	}

	log.InfoListAuthors(i.logger, "Sent authors", traceID, len(authors))
	c.JSON(http.StatusOK, newAuthorsResponse(authors))
}
