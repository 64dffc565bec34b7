// Package rpc describes the sgf.ParserService gRPC service. Messages are
// protobuf well-known types, so no generated code is needed: the request is a
// StringValue holding SGF text, the response a Struct holding the AST.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"sgf_service/internal/domain/sgf"
)

// MaxDepth is the deepest game tree a Parse response can carry. Each tree
// level costs four Struct/ListValue levels and protobuf stops at 10000.
const MaxDepth = 1000

const (
	ServiceName = "sgf.ParserService"
	ParseMethod = "/" + ServiceName + "/Parse"
)

type ParserServiceServer interface {
	Parse(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error)
}

var ParserServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ParserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Parse",
			Handler:    parseHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterParserServiceServer(s grpc.ServiceRegistrar, srv ParserServiceServer) {
	s.RegisterService(&ParserServiceDesc, srv)
}

func parseHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ParserServiceServer).Parse(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ParseMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ParserServiceServer).Parse(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type ParserServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewParserServiceClient(cc grpc.ClientConnInterface) *ParserServiceClient {
	return &ParserServiceClient{cc: cc}
}

func (c *ParserServiceClient) Parse(ctx context.Context, text string, opts ...grpc.CallOption) (*sgf.Collection, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ParseMethod, wrapperspb.String(text), out, opts...); err != nil {
		return nil, err
	}
	return DecodeCollection(out)
}

func EncodeCollection(c *sgf.Collection) (*structpb.Struct, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal collection: %w", err)
	}
	st := &structpb.Struct{}
	if err = protojson.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("collection to struct: %w", err)
	}
	return st, nil
}

func DecodeCollection(st *structpb.Struct) (*sgf.Collection, error) {
	data, err := protojson.Marshal(st)
	if err != nil {
		return nil, fmt.Errorf("struct to json: %w", err)
	}
	var c sgf.Collection
	if err = json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal collection: %w", err)
	}
	return &c, nil
}
