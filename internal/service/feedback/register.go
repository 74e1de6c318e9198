package feedback

import (
	"google.golang.org/grpc"

	"github.com/oggyb/ideaji/internal/app"
	pb "github.com/oggyb/ideaji/internal/proto/feedback"
)

// Registrar ties the Feedback service into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Feedback service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the Feedback service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	pb.RegisterFeedbackServiceServer(s, NewGRPCServer(NewFeedbackService(r.appCtx)))
}
