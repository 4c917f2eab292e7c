// internal/common/camunda/camundatest/jobclient.go

// Package camundatest provides a worker.JobClient whose commands land on a
// testify mock instead of a Zeebe gateway.
package camundatest

import (
	"context"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc"
)

// Gateway mocks the three job commands a worker sends. Any other gateway
// call panics on the nil embedded client.
type Gateway struct {
	pb.GatewayClient
	mock.Mock
}

func (g *Gateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	args := g.Called(in)
	return &pb.CompleteJobResponse{}, args.Error(0)
}

func (g *Gateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	args := g.Called(in)
	return &pb.FailJobResponse{}, args.Error(0)
}

func (g *Gateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	args := g.Called(in)
	return &pb.ThrowErrorResponse{}, args.Error(0)
}

// JobClient builds real Zeebe commands against Gateway.
type JobClient struct {
	Gateway *Gateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: &Gateway{}}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// NewJob returns an activated job carrying variables as its JSON payload.
func NewJob(key int64, jobType string, retries int32, variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               jobType,
		Retries:            retries,
		Variables:          variables,
		ProcessInstanceKey: 2251799813685249,
	}}
}
