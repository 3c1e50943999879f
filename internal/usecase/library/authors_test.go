package library

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/project/catalog/internal/entity"
	"github.com/project/catalog/internal/usecase/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    *entity.AuthorPayload
		prepare    func(tl testLibrary)
		want       entity.Author
		errRequire error
	}{
		{
			name:       "nil payload",
			payload:    nil,
			prepare:    func(testLibrary) {},
			errRequire: entity.ErrInvalid,
		},
		{
			name:       "invalid payload never reaches the store",
			payload:    &entity.AuthorPayload{Name: " ", BirthDate: tolkienBirth},
			prepare:    func(testLibrary) {},
			errRequire: entity.ErrInvalid,
		},
		{
			name:    "generated id",
			payload: tolkienPayload(),
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().InsertAuthor(gomock.Any(), entity.Author{Name: tolkien.Name, BirthDate: tolkienBirth}).
					Return(tolkien, nil)
			},
			want: tolkien,
		},
		{
			name: "zero id is unassigned",
			payload: &entity.AuthorPayload{
				ID: ptr(int64(0)), Name: tolkien.Name, BirthDate: tolkienBirth,
			},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().InsertAuthor(gomock.Any(), entity.Author{Name: tolkien.Name, BirthDate: tolkienBirth}).
					Return(tolkien, nil)
			},
			want: tolkien,
		},
		{
			name: "free explicit id",
			payload: &entity.AuthorPayload{
				ID: ptr(int64(5)), Name: tolkien.Name, BirthDate: tolkienBirth,
			},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(5)).Return(entity.Author{}, entity.ErrAuthorNotFound)
				tl.authors.EXPECT().InsertAuthor(gomock.Any(), entity.Author{ID: 5, Name: tolkien.Name, BirthDate: tolkienBirth}).
					DoAndReturn(func(_ context.Context, a entity.Author) (entity.Author, error) { return a, nil })
			},
			want: entity.Author{ID: 5, Name: tolkien.Name, BirthDate: tolkienBirth},
		},
		{
			name: "taken explicit id",
			payload: &entity.AuthorPayload{
				ID: ptr(int64(1)), Name: "Someone else", BirthDate: tolkienBirth,
			},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(1)).Return(tolkien, nil)
			},
			errRequire: entity.ErrConflict,
		},
		{
			name: "lookup failure",
			payload: &entity.AuthorPayload{
				ID: ptr(int64(1)), Name: tolkien.Name, BirthDate: tolkienBirth,
			},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(1)).Return(entity.Author{}, errInternal)
			},
			errRequire: entity.ErrStoreFailure,
		},
		{
			name:    "insert failure",
			payload: tolkienPayload(),
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().InsertAuthor(gomock.Any(), gomock.Any()).Return(entity.Author{}, errInternal)
			},
			errRequire: errInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tl := newTestLibrary(t, false)
			tt.prepare(tl)

			author, err := tl.lib.CreateAuthor(context.Background(), tt.payload)
			if tt.errRequire != nil {
				require.ErrorIs(t, err, tt.errRequire)
				require.Empty(t, author)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, author)
		})
	}
}

func TestCreateAuthor_StoreFailureIsClassified(t *testing.T) {
	t.Parallel()

	tl := newTestLibrary(t, false)
	tl.authors.EXPECT().InsertAuthor(gomock.Any(), gomock.Any()).Return(entity.Author{}, errInternal)

	_, err := tl.lib.CreateAuthor(context.Background(), tolkienPayload())
	require.ErrorIs(t, err, entity.ErrStoreFailure)
	require.Equal(t, entity.FailureStore, entity.Classify(err))
}

func TestCreateAuthor_WritesOutbox(t *testing.T) {
	t.Parallel()

	tl := newTestLibrary(t, true)
	tl.authors.EXPECT().InsertAuthor(gomock.Any(), gomock.Any()).Return(tolkien, nil)
	tl.outbox.EXPECT().SendMessage(gomock.Any(), gomock.Any(), repository.OutboxKindAuthor, gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ repository.OutboxKind, message []byte) error {
			require.NotEmpty(t, key)

			var msg ChangeMessage
			require.NoError(t, json.Unmarshal(message, &msg))
			require.Equal(t, ActionCreated, msg.Action)
			require.Equal(t, "author", msg.Kind)
			require.Equal(t, tolkien.ID, msg.ID)
			return nil
		})

	author, err := tl.lib.CreateAuthor(context.Background(), tolkienPayload())
	require.NoError(t, err)
	require.Equal(t, tolkien, author)
}

func TestCreateAuthor_OutboxFailureFailsOperation(t *testing.T) {
	t.Parallel()

	tl := newTestLibrary(t, true)
	tl.authors.EXPECT().InsertAuthor(gomock.Any(), gomock.Any()).Return(tolkien, nil)
	tl.outbox.EXPECT().SendMessage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errInternal)

	_, err := tl.lib.CreateAuthor(context.Background(), tolkienPayload())
	require.ErrorIs(t, err, entity.ErrStoreFailure)
}

func TestGetAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		repoErr    error
		errRequire error
	}{
		{name: "found"},
		{name: "not found", repoErr: entity.ErrAuthorNotFound, errRequire: entity.ErrNotFound},
		{name: "store failure", repoErr: errInternal, errRequire: entity.ErrStoreFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tl := newTestLibrary(t, false)
			if tt.repoErr != nil {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(entity.Author{}, tt.repoErr)
			} else {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(tolkien, nil)
			}

			author, err := tl.lib.GetAuthor(context.Background(), tolkien.ID)
			if tt.errRequire != nil {
				require.ErrorIs(t, err, tt.errRequire)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tolkien, author)
		})
	}
}

func TestListAuthors(t *testing.T) {
	t.Parallel()

	tl := newTestLibrary(t, false)
	tl.authors.EXPECT().ListAuthors(gomock.Any()).Return([]entity.Author{tolkien}, nil)
	tl.authors.EXPECT().ListAuthors(gomock.Any()).Return(nil, errInternal)

	authors, err := tl.lib.ListAuthors(context.Background())
	require.NoError(t, err)
	require.Equal(t, []entity.Author{tolkien}, authors)

	_, err = tl.lib.ListAuthors(context.Background())
	require.ErrorIs(t, err, entity.ErrStoreFailure)
}

func TestUpdateAuthor(t *testing.T) {
	t.Parallel()

	renamed := tolkien
	renamed.Name = "John Ronald Reuel Tolkien"

	tests := []struct {
		name       string
		id         int64
		payload    *entity.AuthorPayload
		prepare    func(tl testLibrary)
		want       entity.Author
		errRequire error
	}{
		{
			name:       "invalid payload never reaches the store",
			id:         1,
			payload:    &entity.AuthorPayload{Name: "", BirthDate: tolkienBirth},
			prepare:    func(testLibrary) {},
			errRequire: entity.ErrInvalid,
		},
		{
			name:    "unknown id wins over missing payload",
			id:      42,
			payload: nil,
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(42)).Return(entity.Author{}, entity.ErrAuthorNotFound)
			},
			errRequire: entity.ErrNotFound,
		},
		{
			name:    "missing payload",
			id:      1,
			payload: nil,
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(1)).Return(tolkien, nil)
			},
			errRequire: entity.ErrInvalid,
		},
		{
			name: "mismatched id",
			id:   1,
			payload: &entity.AuthorPayload{
				ID: ptr(int64(2)), Name: renamed.Name, BirthDate: tolkienBirth,
			},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(1)).Return(tolkien, nil)
			},
			errRequire: entity.ErrConflict,
		},
		{
			name: "matching id",
			id:   1,
			payload: &entity.AuthorPayload{
				ID: ptr(int64(1)), Name: renamed.Name, BirthDate: tolkienBirth,
			},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(1)).Return(tolkien, nil)
				tl.authors.EXPECT().UpdateAuthor(gomock.Any(), renamed).Return(renamed, nil)
			},
			want: renamed,
		},
		{
			name:    "payload without id",
			id:      1,
			payload: &entity.AuthorPayload{Name: renamed.Name, BirthDate: tolkienBirth},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(1)).Return(tolkien, nil)
				tl.authors.EXPECT().UpdateAuthor(gomock.Any(), renamed).Return(renamed, nil)
			},
			want: renamed,
		},
		{
			name:    "update failure",
			id:      1,
			payload: &entity.AuthorPayload{Name: renamed.Name, BirthDate: tolkienBirth},
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(1)).Return(tolkien, nil)
				tl.authors.EXPECT().UpdateAuthor(gomock.Any(), renamed).Return(entity.Author{}, errInternal)
			},
			errRequire: entity.ErrStoreFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tl := newTestLibrary(t, false)
			tt.prepare(tl)

			author, err := tl.lib.UpdateAuthor(context.Background(), tt.id, tt.payload)
			if tt.errRequire != nil {
				require.ErrorIs(t, err, tt.errRequire)
				require.Empty(t, author)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, author)
		})
	}
}

func TestDeleteAuthor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prepare    func(tl testLibrary)
		errRequire error
	}{
		{
			name: "not found",
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(entity.Author{}, entity.ErrAuthorNotFound)
			},
			errRequire: entity.ErrNotFound,
		},
		{
			name: "has books",
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(tolkien, nil)
				tl.books.EXPECT().CountAuthorBooks(gomock.Any(), tolkien.ID).Return(2, nil)
			},
			errRequire: entity.ErrHasDependents,
		},
		{
			name: "count failure",
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(tolkien, nil)
				tl.books.EXPECT().CountAuthorBooks(gomock.Any(), tolkien.ID).Return(0, errInternal)
			},
			errRequire: entity.ErrStoreFailure,
		},
		{
			name: "deleted",
			prepare: func(tl testLibrary) {
				tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(tolkien, nil)
				tl.books.EXPECT().CountAuthorBooks(gomock.Any(), tolkien.ID).Return(0, nil)
				tl.authors.EXPECT().DeleteAuthor(gomock.Any(), tolkien.ID).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tl := newTestLibrary(t, false)
			tt.prepare(tl)

			err := tl.lib.DeleteAuthor(context.Background(), tolkien.ID)
			if tt.errRequire != nil {
				require.ErrorIs(t, err, tt.errRequire)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDeleteAuthor_WritesOutbox(t *testing.T) {
	t.Parallel()

	tl := newTestLibrary(t, true)
	tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(tolkien, nil)
	tl.books.EXPECT().CountAuthorBooks(gomock.Any(), tolkien.ID).Return(0, nil)
	tl.authors.EXPECT().DeleteAuthor(gomock.Any(), tolkien.ID).Return(nil)
	tl.outbox.EXPECT().SendMessage(gomock.Any(), gomock.Any(), repository.OutboxKindAuthor, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ repository.OutboxKind, message []byte) error {
			var msg ChangeMessage
			require.NoError(t, json.Unmarshal(message, &msg))
			require.Equal(t, ActionDeleted, msg.Action)
			return nil
		})

	require.NoError(t, tl.lib.DeleteAuthor(context.Background(), tolkien.ID))
}

func TestGetAuthorBooks(t *testing.T) {
	t.Parallel()

	t.Run("unknown author", func(t *testing.T) {
		t.Parallel()

		tl := newTestLibrary(t, false)
		tl.authors.EXPECT().GetAuthor(gomock.Any(), int64(7)).Return(entity.Author{}, entity.ErrAuthorNotFound)

		_, err := tl.lib.GetAuthorBooks(context.Background(), 7)
		require.ErrorIs(t, err, entity.ErrNotFound)
	})

	t.Run("books of author", func(t *testing.T) {
		t.Parallel()

		tl := newTestLibrary(t, false)
		tl.authors.EXPECT().GetAuthor(gomock.Any(), tolkien.ID).Return(tolkien, nil)
		tl.books.EXPECT().ListAuthorBooks(gomock.Any(), tolkien.ID).Return([]entity.Book{hobbit}, nil)

		books, err := tl.lib.GetAuthorBooks(context.Background(), tolkien.ID)
		require.NoError(t, err)
		require.Equal(t, []entity.Book{hobbit}, books)
	})
}
