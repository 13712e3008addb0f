// Package rpcctx propagates execution contexts over gRPC and Connect.
//
// Server interceptors decode the okapi headers of each incoming call and
// bind the resulting execution context for the handler; client interceptors
// copy the headers of the bound context onto outgoing calls. Each call is
// its own unit of work.
//
//	srv := grpc.NewServer(
//	    grpc.ChainUnaryInterceptor(rpcctx.UnaryServerInterceptor(md)),
//	    grpc.ChainStreamInterceptor(rpcctx.StreamServerInterceptor(md)),
//	)
//
//	path, handler := ordersv1connect.NewOrdersServiceHandler(svc,
//	    connect.WithInterceptors(rpcctx.NewInterceptor(md)),
//	)
package rpcctx
