// Package feedback holds the gRPC contract for ideaji.v1.FeedbackService.
package feedback

//go:generate protoc --go-grpc_out=. --go-grpc_opt=paths=source_relative feedback.proto
