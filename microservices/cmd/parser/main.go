package main

import (
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"sgf_service/internal/bootstrap"
	"sgf_service/microservices/rpc"
	"sgf_service/microservices/usecase"
)

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}

	lis, err := net.Listen("tcp", cfg.GrpcPort)
	if err != nil {
		logger.Fatalw("cant listen port", zap.Error(err))
	}

	server := grpc.NewServer(grpc.UnaryInterceptor(usecase.LoggingInterceptor(logger)))
	rpc.RegisterParserServiceServer(server, usecase.NewParserUseCase(logger, cfg.MaxDepth))

	logger.Infof("starting parser service at %s", cfg.GrpcPort)
	if err = server.Serve(lis); err != nil {
		logger.Fatalw("grpc server stopped", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger.Sugar()
}
