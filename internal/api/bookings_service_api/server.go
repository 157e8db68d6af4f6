package bookings_service_api

import (
	"context"

	"github.com/Domenick1991/airfare/internal/api/rpcjson"
	"github.com/Domenick1991/airfare/internal/service/booking"
	"google.golang.org/grpc"
)

const ServiceName = "airfare.bookings.v1.BookingsService"

type BookingsServer interface {
	Reserve(ctx context.Context, req *booking.ReserveInput) (*booking.ReserveResult, error)
	Confirm(ctx context.Context, req *booking.ConfirmInput) (*booking.ConfirmResult, error)
	Cancel(ctx context.Context, req *booking.CancelInput) (*booking.CancelResult, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingsServer)(nil),
	Methods: []grpc.MethodDesc{
		rpcjson.Method(ServiceName, "Reserve", BookingsServer.Reserve),
		rpcjson.Method(ServiceName, "Confirm", BookingsServer.Confirm),
		rpcjson.Method(ServiceName, "Cancel", BookingsServer.Cancel),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airfare/bookings/v1",
}

func RegisterBookingsServer(s grpc.ServiceRegistrar, srv BookingsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Server exposes the reservation engine over gRPC.
type Server struct {
	bookings booking.BookingUseCase
}

func NewServer(bookings booking.BookingUseCase) *Server {
	return &Server{bookings: bookings}
}

func (s *Server) Reserve(ctx context.Context, req *booking.ReserveInput) (*booking.ReserveResult, error) {
	res, err := s.bookings.Reserve(ctx, *req)
	if err != nil {
		return nil, rpcjson.Status(err)
	}
	return res, nil
}

func (s *Server) Confirm(ctx context.Context, req *booking.ConfirmInput) (*booking.ConfirmResult, error) {
	res, err := s.bookings.Confirm(ctx, *req)
	if err != nil {
		return nil, rpcjson.Status(err)
	}
	return res, nil
}

func (s *Server) Cancel(ctx context.Context, req *booking.CancelInput) (*booking.CancelResult, error) {
	res, err := s.bookings.Cancel(ctx, *req)
	if err != nil {
		return nil, rpcjson.Status(err)
	}
	return res, nil
}

var _ BookingsServer = (*Server)(nil)

// Client calls a remote BookingsService.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Reserve(ctx context.Context, in *booking.ReserveInput, opts ...grpc.CallOption) (*booking.ReserveResult, error) {
	out := new(booking.ReserveResult)
	if err := c.invoke(ctx, "Reserve", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Confirm(ctx context.Context, in *booking.ConfirmInput, opts ...grpc.CallOption) (*booking.ConfirmResult, error) {
	out := new(booking.ConfirmResult)
	if err := c.invoke(ctx, "Confirm", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Cancel(ctx context.Context, in *booking.CancelInput, opts ...grpc.CallOption) (*booking.CancelResult, error) {
	out := new(booking.CancelResult)
	if err := c.invoke(ctx, "Cancel", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{rpcjson.CallOption()}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}
