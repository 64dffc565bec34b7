package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"sgf_service/internal/errors"
	"sgf_service/internal/parser"
	"sgf_service/microservices/rpc"
)

type ParserUseCase struct {
	log      *zap.SugaredLogger
	maxDepth int
}

// NewParserUseCase caps maxDepth at rpc.MaxDepth; a value <= 0 means the cap itself.
func NewParserUseCase(log *zap.SugaredLogger, maxDepth int) *ParserUseCase {
	if maxDepth <= 0 || maxDepth > rpc.MaxDepth {
		maxDepth = rpc.MaxDepth
	}
	return &ParserUseCase{
		log:      log,
		maxDepth: maxDepth,
	}
}

func (p *ParserUseCase) Parse(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	collection, err := parser.Parse(in.GetValue(), parser.WithMaxDepth(p.maxDepth))
	if stderrors.Is(err, errors.ErrSyntax) {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}

	resp, err := rpc.EncodeCollection(collection)
	if err != nil {
		p.log.Errorf("failed to encode collection: %v", err)
		return nil, status.Error(codes.Internal, errors.ErrInternal.Error())
	}
	return resp, nil
}

// LoggingInterceptor logs every call with its duration and status code.
func LoggingInterceptor(log *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Infow("grpc call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
