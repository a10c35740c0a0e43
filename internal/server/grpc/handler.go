package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mapkeeper/internal/server/snapshots"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) PushSnapshot(ctx context.Context, req *wrapperspb.BytesValue) (*emptypb.Empty, error) {
	clientID, ok := clientIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	doc := req.GetValue()
	if err := s.snapshots.Push(ctx, clientID, doc); err != nil {
		if errors.Is(err, snapshots.ErrEmptySnapshot) || errors.Is(err, snapshots.ErrSnapshotTooLarge) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		s.logger.Error(ctx, "push failed", "client", clientID, "err", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "Snapshot stored", "client", clientID, "bytes", len(doc))
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) PullSnapshot(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	clientID, ok := clientIDFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "unauthenticated")
	}

	doc, err := s.snapshots.Pull(ctx, clientID)
	if err != nil {
		if errors.Is(err, snapshots.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "no snapshot")
		}
		s.logger.Error(ctx, "pull failed", "client", clientID, "err", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return wrapperspb.Bytes(doc), nil
}
