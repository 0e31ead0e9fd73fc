package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/registry"
	"github.com/freshfleet/backoffice/platform/go/requesttrace"
)

type mockRepo struct {
	create      func(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error)
	get         func(ctx context.Context, id string) (persistence.Document, error)
	list        func(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error)
	update      func(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error)
	deactivate  func(ctx context.Context, id string, actor *int64) (persistence.Document, error)
	findByEmail func(ctx context.Context, email string) (persistence.Document, error)
}

func (m *mockRepo) Create(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
	return m.create(ctx, fields, actor)
}

func (m *mockRepo) Get(ctx context.Context, id string) (persistence.Document, error) {
	return m.get(ctx, id)
}

func (m *mockRepo) List(ctx context.Context, opts persistence.ListOptions) (persistence.ListResult, error) {
	return m.list(ctx, opts)
}

func (m *mockRepo) Update(ctx context.Context, id string, set persistence.Document, actor *int64) (persistence.Document, error) {
	return m.update(ctx, id, set, actor)
}

func (m *mockRepo) Deactivate(ctx context.Context, id string, actor *int64) (persistence.Document, error) {
	return m.deactivate(ctx, id, actor)
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (persistence.Document, error) {
	return m.findByEmail(ctx, email)
}

func (m *mockRepo) Spec() registry.Collection {
	return registry.Collection{
		Name:          "users",
		SequenceField: "Users_id",
		ActiveField:   "Status",
		Searchable:    []string{"Name", "Email"},
		Sortable:      []string{"createdAt", "Name"},
	}
}

func strPtr(s string) *string { return &s }

func TestCreateNormalizesEmailAndChecksDuplicates(t *testing.T) {
	t.Parallel()

	var lookedUp string
	var gotFields persistence.Document
	repo := &mockRepo{
		findByEmail: func(ctx context.Context, email string) (persistence.Document, error) {
			lookedUp = email
			return nil, persistence.ErrNotFound
		},
		create: func(ctx context.Context, fields persistence.Document, actor *int64) (persistence.Document, error) {
			gotFields = fields
			return persistence.Document{"Users_id": int64(1)}, nil
		},
	}
	svc := New(repo)

	doc, err := svc.Create(context.Background(), requesttrace.Anonymous(""), CreateUserInput{
		Name:  " Ada ",
		Email: " Ada@FreshFleet.DEV ",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), doc["Users_id"])
	require.Equal(t, "ada@freshfleet.dev", lookedUp)
	require.Equal(t, "ada@freshfleet.dev", gotFields["Email"])
	require.Equal(t, "Ada", gotFields["Name"])
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		findByEmail: func(ctx context.Context, email string) (persistence.Document, error) {
			return persistence.Document{"Users_id": int64(7), "Email": email}, nil
		},
	}
	svc := New(repo)

	_, err := svc.Create(context.Background(), requesttrace.Anonymous(""), CreateUserInput{
		Name:  "Ada",
		Email: "ada@freshfleet.dev",
	})

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "Email")
}

func TestCreateValidatesInput(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepo{})

	cases := []struct {
		name      string
		input     CreateUserInput
		wantField string
	}{
		{name: "missing name", input: CreateUserInput{Email: "a@b.c"}, wantField: "Name"},
		{name: "missing email", input: CreateUserInput{Name: "Ada"}, wantField: "Email"},
		{name: "malformed email", input: CreateUserInput{Name: "Ada", Email: "not-an-email"}, wantField: "Email"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Create(context.Background(), requesttrace.Anonymous(""), tc.input)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Contains(t, validationErr.Fields, tc.wantField)
		})
	}
}

func TestUpdateValidatesEmail(t *testing.T) {
	t.Parallel()

	svc := New(&mockRepo{})

	_, err := svc.Update(context.Background(), requesttrace.Anonymous(""), "1", UpdateUserInput{Email: strPtr("nope")})
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)

	_, err = svc.Update(context.Background(), requesttrace.Anonymous(""), "1", UpdateUserInput{})
	require.ErrorAs(t, err, &validationErr)
	require.Contains(t, validationErr.Fields, "body")
}

func TestGetMapsEngineErrors(t *testing.T) {
	t.Parallel()

	repo := &mockRepo{
		get: func(ctx context.Context, id string) (persistence.Document, error) {
			if id == "bad" {
				return nil, persistence.ErrInvalidIdentifier
			}
			return nil, persistence.ErrNotFound
		},
	}
	svc := New(repo)

	_, err := svc.Get(context.Background(), requesttrace.Anonymous(""), "42")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get(context.Background(), requesttrace.Anonymous(""), "bad")
	require.ErrorIs(t, err, ErrInvalidID)
}
