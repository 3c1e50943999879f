package outbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/project/catalog/internal/usecase/repository"
)

const contentType = "application/json"

var (
	ErrFailRequest     = errors.New("not 2xx response")
	ErrUnsupportedKind = errors.New("unsupported outbox kind")
)

// HTTPHandler delivers change messages by POSTing them to the URL of their
// kind. An empty URL drops messages of that kind.
func HTTPHandler(client *http.Client, authorURL, bookURL string) GlobalHandler {
	return func(kind repository.OutboxKind) (KindHandler, error) {
		switch kind {
		case repository.OutboxKindAuthor:
			return postHandler(client, authorURL), nil
		case repository.OutboxKindBook:
			return postHandler(client, bookURL), nil
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnsupportedKind, kind)
		}
	}
}

func postHandler(client *http.Client, url string) KindHandler {
	return func(ctx context.Context, data []byte) error {
		if url == "" {
			return nil
		}

		request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("can not build post request: %w", err)
		}
		request.Header.Set("Content-Type", contentType)

		response, err := client.Do(request)
		if err != nil {
			return fmt.Errorf("can not make post request to given url: %w", err)
		}
		defer response.Body.Close()

		if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("%w: %d", ErrFailRequest, response.StatusCode)
		}

		return nil
	}
}
