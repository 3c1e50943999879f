package controller

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/project/catalog/internal/controller/mocks"
	"github.com/project/catalog/internal/entity"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var errInternal = errors.New("connection reset by peer")

var (
	tolkien = entity.Author{ID: 1, Name: "J. R. R. Tolkien", BirthDate: time.Date(1892, time.January, 3, 0, 0, 0, 0, time.UTC)}
	hobbit  = entity.Book{ID: 1, Title: "The Hobbit", PublishedYear: 1937, AuthorID: 1, Price: decimal.RequireFromString("12.99")}
)

func init() {
	gin.SetMode(gin.TestMode)
}

func initTest(t *testing.T) (*gin.Engine, *mocks.MockAuthorUseCase, *mocks.MockBooksUseCase) {
	t.Helper()

	ctrl := gomock.NewController(t)
	authorUseCase := mocks.NewMockAuthorUseCase(ctrl)
	booksUseCase := mocks.NewMockBooksUseCase(ctrl)

	router := gin.New()
	New(zap.NewNop(), booksUseCase, authorUseCase).Register(router)

	return router, authorUseCase, booksUseCase
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}
