package services

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// ParserClient calls the parse service and decodes its Struct payloads.
type ParserClient struct {
	cc grpc.ClientConnInterface
}

// NewParserClient wraps cc.
func NewParserClient(cc grpc.ClientConnInterface) *ParserClient {
	return &ParserClient{cc: cc}
}

// Parse parses one SMILES string.
func (c *ParserClient) Parse(ctx context.Context, smiles string, opts ...grpc.CallOption) (*moltypes.MoleculeDTO, error) {
	req, err := encodeStruct(moltypes.ParseRequest{SMILES: smiles})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ParseFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	var dto moltypes.MoleculeDTO
	if err := decodeStruct(out, &dto); err != nil {
		return nil, err
	}
	return &dto, nil
}

// ParseBatch parses items independently.
func (c *ParserClient) ParseBatch(ctx context.Context, items []string, opts ...grpc.CallOption) (*moltypes.BatchParseResponse, error) {
	req, err := encodeStruct(moltypes.BatchParseRequest{Items: items})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ParseBatchFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	var resp moltypes.BatchParseResponse
	if err := decodeStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ErrorDetail extracts the error DTO attached by ToStatus.
func ErrorDetail(err error) (*moltypes.ParseErrorDTO, bool) {
	st, ok := status.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		s, ok := d.(*structpb.Struct)
		if !ok {
			continue
		}
		var dto moltypes.ParseErrorDTO
		if decodeStruct(s, &dto) == nil && dto.Code != "" {
			return &dto, true
		}
	}
	return nil, false
}

//Personal.AI order the ending
