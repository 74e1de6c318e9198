package feedback

import (
	"context"
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	svcErr "github.com/oggyb/ideaji/internal/errors"
	"github.com/oggyb/ideaji/internal/identity"
	pb "github.com/oggyb/ideaji/internal/proto/feedback"
)

// GRPCServer adapts Service to pb.FeedbackServiceServer.
type GRPCServer struct {
	pb.UnimplementedFeedbackServiceServer
	svc *Service
}

var _ pb.FeedbackServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(svc *Service) *GRPCServer {
	return &GRPCServer{svc: svc}
}

// Submit decodes {ideaId, action, rating?, comment?, tags?} and returns
// {success, feedback, pointsAwarded}.
func (g *GRPCServer) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p, ok := identity.FromContext(ctx)
	if !ok {
		return nil, svcErr.Map(svcErr.Unauthenticated("authentication required"))
	}

	raw, err := protojson.Marshal(req)
	if err != nil {
		return nil, svcErr.InvalidArgument("malformed request")
	}
	var in SubmitInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, svcErr.InvalidArgument("invalid request data: " + err.Error())
	}

	res, err := g.svc.Submit(ctx, p.UserID, in)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toStruct(map[string]any{
		"success":       true,
		"feedback":      res.Feedback,
		"pointsAwarded": res.PointsAwarded,
	})
}

// List accepts {ideaId?, userId?, action?} and returns {feedback, stats}.
func (g *GRPCServer) List(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if _, ok := identity.FromContext(ctx); !ok {
		return nil, svcErr.Map(svcErr.Unauthenticated("authentication required"))
	}

	fields := req.GetFields()
	res, err := g.svc.List(ctx, ListInput{
		IdeaID: fields["ideaId"].GetStringValue(),
		UserID: fields["userId"].GetStringValue(),
		Action: fields["action"].GetStringValue(),
	})
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return toStruct(res)
}

// toStruct converts v to a Struct through its JSON form so field names
// match the REST responses.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, svcErr.Map(svcErr.Internal("encode response", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, svcErr.Map(svcErr.Internal("encode response", err))
	}
	return out, nil
}
