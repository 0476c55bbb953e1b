// Package services implements the gRPC parse service.
//
// Messages are google.protobuf.Struct values carrying the same JSON shapes as
// the HTTP API: Parse takes {"smiles": "..."} and returns a molecule, and
// ParseBatch takes {"items": [...]} and returns a batch response.  Rejected
// input is reported as a gRPC status whose single detail is a Struct holding
// the error code, kind, offset and snippet.
package services

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/turtacn/smiles-parser/internal/application/molecule"
	"github.com/turtacn/smiles-parser/pkg/errors"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "smiles.v1.SMILESParser"

// Full method names.
const (
	ParseFullMethod      = "/" + ServiceName + "/Parse"
	ParseBatchFullMethod = "/" + ServiceName + "/ParseBatch"
)

// SMILESParserServer is the server API of the parse service.
type SMILESParserServer interface {
	Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ParseBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ParserService adapts molecule.Service to SMILESParserServer.
type ParserService struct {
	service      molecule.Service
	maxBatchSize int
}

// NewParserService creates the service.  maxBatchSize ≤ 0 leaves the limit
// to the parse service.
func NewParserService(service molecule.Service, maxBatchSize int) *ParserService {
	return &ParserService{service: service, maxBatchSize: maxBatchSize}
}

// Register adds the service to s.
func (p *ParserService) Register(s interface {
	RegisterService(desc *grpc.ServiceDesc, impl interface{})
}) {
	s.RegisterService(&ServiceDesc, p)
}

func (p *ParserService) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in moltypes.ParseRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, ToStatus(errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request"))
	}
	dto, err := p.service.Parse(ctx, in.SMILES)
	if err != nil {
		return nil, ToStatus(err)
	}
	return encodeStruct(dto)
}

func (p *ParserService) ParseBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in moltypes.BatchParseRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, ToStatus(errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request"))
	}
	if err := in.Validate(p.maxBatchSize); err != nil {
		code := errors.ErrCodeBadRequest
		if len(in.Items) > 0 {
			code = errors.ErrCodeBatchTooLarge
		}
		return nil, ToStatus(errors.New(code, err.Error()))
	}

	resp, err := p.service.ParseBatch(ctx, in.Items)
	if err != nil {
		return nil, ToStatus(err)
	}
	return encodeStruct(resp)
}

// ToStatus converts err into a gRPC status carrying the error DTO as detail.
// Errors without an application code are masked as internal errors.
func ToStatus(err error) error {
	dto := molecule.ErrorDTO(err)
	var appErr *errors.AppError
	if !errors.As(err, &appErr) {
		dto.Message = errors.DefaultMessageForCode(errors.ErrCodeInternal)
	}

	st := status.New(grpcCode(errors.ErrorCode(dto.Code)), dto.Code+": "+dto.Message)
	detail, encErr := encodeStruct(dto)
	if encErr != nil {
		return st.Err()
	}
	if withDetail, detErr := st.WithDetails(detail); detErr == nil {
		st = withDetail
	}
	return st.Err()
}

// grpcCode maps an application code onto the closest gRPC code, going
// through its HTTP status.
func grpcCode(code errors.ErrorCode) codes.Code {
	switch errors.HTTPStatusForCode(code) {
	case 400, 422:
		return codes.InvalidArgument
	case 404:
		return codes.NotFound
	case 408, 504:
		return codes.DeadlineExceeded
	case 413, 429:
		return codes.ResourceExhausted
	case 501:
		return codes.Unimplemented
	case 503:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func encodeStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func decodeStruct(in *structpb.Struct, v interface{}) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ---------------------------------------------------------------------------
// Service descriptor
// ---------------------------------------------------------------------------

// ServiceDesc describes the parse service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SMILESParserServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: parseHandler},
		{MethodName: "ParseBatch", Handler: parseBatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "smiles/v1/parser.proto",
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SMILESParserServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SMILESParserServer).Parse(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func parseBatchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SMILESParserServer).ParseBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ParseBatchFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SMILESParserServer).ParseBatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

//Personal.AI order the ending
