package feedback_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/ideaji/internal/identity"
	"github.com/oggyb/ideaji/internal/service/feedback"
)

func TestGRPCSubmitAndList(t *testing.T) {
	f := setupService(t)
	srv := feedback.NewGRPCServer(f.svc)
	ctx := identity.WithPrincipal(context.Background(), identity.Principal{UserID: f.reviewer.ID})

	req, err := structpb.NewStruct(map[string]any{
		"ideaId":  f.idea.ID,
		"action":  "detailed",
		"rating":  5,
		"comment": "ship it",
		"tags":    []any{"Scalable"},
	})
	require.NoError(t, err)

	resp, err := srv.Submit(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.GetFields()["success"].GetBoolValue())
	assert.Equal(t, float64(20), resp.GetFields()["pointsAwarded"].GetNumberValue())
	fb := resp.GetFields()["feedback"].GetStructValue().GetFields()
	assert.Equal(t, "Scalable", fb["tags"].GetStringValue())

	listReq, _ := structpb.NewStruct(map[string]any{"ideaId": f.idea.ID})
	list, err := srv.List(ctx, listReq)
	require.NoError(t, err)
	assert.Len(t, list.GetFields()["feedback"].GetListValue().GetValues(), 1)
	stats := list.GetFields()["stats"].GetStructValue().GetFields()
	assert.Equal(t, float64(1), stats["total"].GetNumberValue())
}

func TestGRPCErrors(t *testing.T) {
	f := setupService(t)
	srv := feedback.NewGRPCServer(f.svc)

	req, _ := structpb.NewStruct(map[string]any{"ideaId": f.idea.ID, "action": "like"})

	_, err := srv.Submit(context.Background(), req)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	ownerCtx := identity.WithPrincipal(context.Background(), identity.Principal{UserID: f.owner.ID})
	_, err = srv.Submit(ownerCtx, req)
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	bad, _ := structpb.NewStruct(map[string]any{"ideaId": f.idea.ID, "action": "like", "rating": 2.5})
	reviewerCtx := identity.WithPrincipal(context.Background(), identity.Principal{UserID: f.reviewer.ID})
	_, err = srv.Submit(reviewerCtx, bad)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	empty, _ := structpb.NewStruct(map[string]any{})
	_, err = srv.List(reviewerCtx, empty)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
