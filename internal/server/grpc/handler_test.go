package grpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/mapkeeper/internal/server/snapshots"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ---- fakes ----

type fakeSnapshots struct {
	pushErr error
	pulled  []byte
	pullErr error
	lastID  string
	lastDoc []byte
}

func (f *fakeSnapshots) Push(ctx context.Context, clientID string, document []byte) error {
	f.lastID = clientID
	f.lastDoc = document
	return f.pushErr
}

func (f *fakeSnapshots) Pull(ctx context.Context, clientID string) ([]byte, error) {
	f.lastID = clientID
	return f.pulled, f.pullErr
}

// ---- helpers ----

func newServer(f *fakeSnapshots) *GRPCServer {
	return &GRPCServer{
		address:   "127.0.0.1:0",
		snapshots: f,
		logger:    nopLogger{},
		jwtSecret: []byte("k"),
	}
}

func authed(clientID string) context.Context {
	return context.WithValue(context.Background(), clientIDKey, clientID)
}

// ---- tests ----

func TestPing_OK(t *testing.T) {
	s := newServer(&fakeSnapshots{})
	if _, err := s.Ping(context.Background(), &emptypb.Empty{}); err != nil {
		t.Fatalf("Ping error: %v", err)
	}
}

func TestPushSnapshot_OK(t *testing.T) {
	f := &fakeSnapshots{}
	s := newServer(f)

	if _, err := s.PushSnapshot(authed("c1"), wrapperspb.Bytes([]byte("doc"))); err != nil {
		t.Fatalf("PushSnapshot error: %v", err)
	}
	if f.lastID != "c1" || string(f.lastDoc) != "doc" {
		t.Fatalf("unexpected push: %q %q", f.lastID, f.lastDoc)
	}
}

func TestPushSnapshot_ErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{snapshots.ErrEmptySnapshot, codes.InvalidArgument},
		{fmt.Errorf("%w: 10 bytes, limit 5", snapshots.ErrSnapshotTooLarge), codes.InvalidArgument},
		{errors.New("db down"), codes.Internal},
	}

	for _, tt := range tests {
		s := newServer(&fakeSnapshots{pushErr: tt.err})
		_, err := s.PushSnapshot(authed("c1"), wrapperspb.Bytes([]byte("doc")))
		if status.Code(err) != tt.want {
			t.Fatalf("%v: want %v, got %v", tt.err, tt.want, status.Code(err))
		}
	}
}

func TestPullSnapshot_OK(t *testing.T) {
	s := newServer(&fakeSnapshots{pulled: []byte("doc")})
	resp, err := s.PullSnapshot(authed("c1"), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("PullSnapshot error: %v", err)
	}
	if string(resp.GetValue()) != "doc" {
		t.Fatalf("unexpected document: %q", resp.GetValue())
	}
}

func TestPullSnapshot_ErrorCodes(t *testing.T) {
	s := newServer(&fakeSnapshots{pullErr: snapshots.ErrNotFound})
	if _, err := s.PullSnapshot(authed("c1"), &emptypb.Empty{}); status.Code(err) != codes.NotFound {
		t.Fatalf("want NotFound, got %v", status.Code(err))
	}

	s = newServer(&fakeSnapshots{pullErr: errors.New("db down")})
	if _, err := s.PullSnapshot(authed("c1"), &emptypb.Empty{}); status.Code(err) != codes.Internal {
		t.Fatalf("want Internal, got %v", status.Code(err))
	}
}

func TestHandlers_RequireClientID(t *testing.T) {
	s := newServer(&fakeSnapshots{})

	if _, err := s.PushSnapshot(context.Background(), wrapperspb.Bytes([]byte("x"))); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("push: want Unauthenticated, got %v", status.Code(err))
	}
	if _, err := s.PullSnapshot(context.Background(), &emptypb.Empty{}); status.Code(err) != codes.Unauthenticated {
		t.Fatalf("pull: want Unauthenticated, got %v", status.Code(err))
	}
}
