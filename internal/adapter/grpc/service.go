package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName      = "advert.AdvertSearch"
	SearchFullMethod = "/advert.AdvertSearch/Search"
)

// AdvertSearchServer takes the same parameters as the HTTP query string,
// carried as a google.protobuf.Struct, and answers with the JSON response shape.
type AdvertSearchServer interface {
	Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func RegisterAdvertSearchServer(s grpc.ServiceRegistrar, srv AdvertSearchServer) {
	s.RegisterService(&AdvertSearchServiceDesc, srv)
}

var AdvertSearchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AdvertSearchServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Search",
			Handler:    searchHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "advert/search.proto",
}

func searchHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdvertSearchServer).Search(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: SearchFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AdvertSearchServer).Search(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
