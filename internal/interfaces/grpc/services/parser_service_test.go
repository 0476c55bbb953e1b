package services

import (
	"context"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/pkg/errors"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Parse(ctx context.Context, input string) (*moltypes.MoleculeDTO, error) {
	args := m.Called(ctx, input)
	dto, _ := args.Get(0).(*moltypes.MoleculeDTO)
	return dto, args.Error(1)
}

func (m *MockService) ParseBatch(ctx context.Context, items []string) (*moltypes.BatchParseResponse, error) {
	args := m.Called(ctx, items)
	resp, _ := args.Get(0).(*moltypes.BatchParseResponse)
	return resp, args.Error(1)
}

func newRealService() molecule.Service {
	return molecule.NewService(molecule.Options{MaxInputLength: 64, MaxBatchSize: 10, BatchConcurrency: 2}, nil, nil, nil)
}

// dial serves svc on an in-memory listener and returns a client for it.
func dial(t *testing.T, svc *ParserService) *ParserClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer()
	svc.Register(gs)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewParserClient(conn)
}

func TestParse_OverGRPC(t *testing.T) {
	client := dial(t, NewParserService(newRealService(), 10))

	dto, err := client.Parse(context.Background(), "CC(=O)O")
	require.NoError(t, err)
	assert.Equal(t, "CC(=O)O", dto.SMILES)
	assert.Equal(t, 4, dto.AtomCount)
	assert.Equal(t, 3, dto.BondCount)
	require.Len(t, dto.Bonds, 3)
	assert.Equal(t, "double", dto.Bonds[1].Order)
}

func TestParse_RejectionCarriesDetail(t *testing.T) {
	client := dial(t, NewParserService(newRealService(), 10))

	_, err := client.Parse(context.Background(), "C1CC")
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	detail, ok := ErrorDetail(err)
	require.True(t, ok)
	assert.Equal(t, string(errors.ErrCodeRingClosure), detail.Code)
	assert.Equal(t, "ring_closure", detail.Kind)
	require.NotNil(t, detail.Offset)
	assert.Equal(t, 1, *detail.Offset)
	assert.True(t, strings.HasPrefix(detail.Snippet, "C1CC\n"))
}

func TestParse_InputLimits(t *testing.T) {
	client := dial(t, NewParserService(newRealService(), 10))

	_, err := client.Parse(context.Background(), "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	detail, ok := ErrorDetail(err)
	require.True(t, ok)
	assert.Equal(t, string(errors.ErrCodeEmptySMILES), detail.Code)

	_, err = client.Parse(context.Background(), strings.Repeat("C", 65))
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	detail, ok = ErrorDetail(err)
	require.True(t, ok)
	assert.Equal(t, string(errors.ErrCodeSMILESTooLong), detail.Code)
}

func TestParseBatch_OverGRPC(t *testing.T) {
	client := dial(t, NewParserService(newRealService(), 10))

	resp, err := client.ParseBatch(context.Background(), []string{"CCO", "C(", "[Na+].[Cl-]"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 3, resp.Results[0].Molecule.AtomCount)
	assert.Equal(t, string(errors.ErrCodeUnbalancedBranch), resp.Results[1].Error.Code)
	assert.Equal(t, 2, resp.Results[2].Molecule.ComponentCount)
}

func TestParseBatch_Rejected(t *testing.T) {
	client := dial(t, NewParserService(newRealService(), 2))

	_, err := client.ParseBatch(context.Background(), nil)
	detail, ok := ErrorDetail(err)
	require.True(t, ok)
	assert.Equal(t, string(errors.ErrCodeBadRequest), detail.Code)

	_, err = client.ParseBatch(context.Background(), []string{"C", "C", "C"})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
	detail, ok = ErrorDetail(err)
	require.True(t, ok)
	assert.Equal(t, string(errors.ErrCodeBatchTooLarge), detail.Code)
}

func TestParse_MalformedRequest(t *testing.T) {
	svc := NewParserService(newRealService(), 10)
	req, err := structpb.NewStruct(map[string]interface{}{"smiles": 5.0})
	require.NoError(t, err)

	_, err = svc.Parse(context.Background(), req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	detail, ok := ErrorDetail(err)
	require.True(t, ok)
	assert.Equal(t, string(errors.ErrCodeBadRequest), detail.Code)
}

func TestParse_InternalErrorIsMasked(t *testing.T) {
	m := new(MockService)
	m.On("Parse", mock.Anything, "CCO").Return(nil, assert.AnError)
	svc := NewParserService(m, 10)

	req, err := structpb.NewStruct(map[string]interface{}{"smiles": "CCO"})
	require.NoError(t, err)
	_, err = svc.Parse(context.Background(), req)

	assert.Equal(t, codes.Internal, status.Code(err))
	assert.NotContains(t, status.Convert(err).Message(), assert.AnError.Error())
	m.AssertExpectations(t)
}

func TestGRPCCode(t *testing.T) {
	cases := map[errors.ErrorCode]codes.Code{
		errors.ErrCodeInvalidSMILES:      codes.InvalidArgument,
		errors.ErrCodeNotFound:           codes.NotFound,
		errors.ErrCodeTimeout:            codes.DeadlineExceeded,
		errors.ErrCodeBatchTooLarge:      codes.ResourceExhausted,
		errors.ErrCodeTooManyRequests:    codes.ResourceExhausted,
		errors.ErrCodeServiceUnavailable: codes.Unavailable,
		errors.ErrCodeInternal:           codes.Internal,
		errors.ErrorCode("UNKNOWN_CODE"): codes.Internal,
	}
	for in, want := range cases {
		assert.Equal(t, want, grpcCode(in), string(in))
	}
}

func TestErrorDetail_PlainError(t *testing.T) {
	_, ok := ErrorDetail(assert.AnError)
	assert.False(t, ok)
	_, ok = ErrorDetail(status.Error(codes.Unavailable, "down"))
	assert.False(t, ok)
}

//Personal.AI order the ending
